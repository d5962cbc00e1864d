package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/farmbook/internal/farm"
)

// entityService is the CRUD surface every entity service offers.
type entityService[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, e *T) (*T, error)
	Update(ctx context.Context, id int64, e *T) (*T, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// entityDef describes the list/get/create/update/delete commands of one
// entity.
type entityDef[T any] struct {
	use      string // command name, e.g. "farms"
	singular string // display noun, e.g. "farm"
	plural   string
	service  func(*farm.Services) entityService[T]

	// bind registers one flag per editable field, writing into e. Required
	// fields are enforced by entity validation, not by cobra.
	bind func(fs *pflag.FlagSet, e *T)

	id      func(*T) int64
	columns []string
	row     func(T) []string
	labels  []string
	detail  func(T) []string

	// listFlags registers list-only flags and returns the filter they drive.
	listFlags func(fs *pflag.FlagSet) func(items []T, now time.Time) ([]T, error)
	// listFooter, when set, prints extra lines under the table.
	listFooter func(a *app, cmd *cobra.Command, items []T)
}

func entityCmd[T any](a *app, def entityDef[T], extra ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   def.use,
		Short: fmt.Sprintf("Manage %s", def.plural),
	}
	cmd.AddCommand(
		entityListCmd(a, def),
		entityGetCmd(a, def),
		entityCreateCmd(a, def),
		entityUpdateCmd(a, def),
		entityDeleteCmd(a, def),
	)
	cmd.AddCommand(extra...)
	return cmd
}

func entityListCmd[T any](a *app, def entityDef[T]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s, newest first", def.plural),
		Args:  exactArgs(0),
	}
	var filter func([]T, time.Time) ([]T, error)
	if def.listFlags != nil {
		filter = def.listFlags(cmd.Flags())
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return a.withSession(cmd, func(ctx context.Context, s *session) error {
			items, err := def.service(s.svc).GetAll(ctx)
			if err != nil {
				return err
			}
			if filter != nil {
				if items, err = filter(items, a.now()); err != nil {
					return err
				}
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), items)
			}
			rows := make([][]string, len(items))
			for i, e := range items {
				rows[i] = def.row(e)
			}
			printTable(cmd.OutOrStdout(), def.columns, rows, def.plural)
			if def.listFooter != nil && len(items) > 0 {
				def.listFooter(a, cmd, items)
			}
			return nil
		})
	}
	return cmd
}

func entityGetCmd[T any](a *app, def entityDef[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: fmt.Sprintf("Show one %s", def.singular),
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				e, err := def.service(s.svc).GetByID(ctx, id)
				if err != nil {
					return err
				}
				return printEntity(a, cmd, def, e)
			})
		},
	}
}

func entityCreateCmd[T any](a *app, def entityDef[T]) *cobra.Command {
	var e T
	cmd := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a %s", def.singular),
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				created, err := def.service(s.svc).Create(ctx, &e)
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), created)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s: %d\n", def.singular, def.id(created))
				return nil
			})
		},
	}
	def.bind(cmd.Flags(), &e)
	return cmd
}

// entityUpdateCmd replaces a record. Flags not given keep the stored
// value, so the full record is always written back.
func entityUpdateCmd[T any](a *app, def entityDef[T]) *cobra.Command {
	var scratch T
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Update a %s", def.singular),
		Args:  exactArgs(1),
	}
	def.bind(cmd.Flags(), &scratch)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		changed := changedFields(cmd.LocalNonPersistentFlags())
		if len(changed) == 0 {
			return usagef("nothing to update: pass at least one field flag")
		}
		return a.withSession(cmd, func(ctx context.Context, s *session) error {
			svc := def.service(s.svc)
			cur, err := svc.GetByID(ctx, id)
			if err != nil {
				return err
			}
			next, err := overlay(def, cur, changed)
			if err != nil {
				return err
			}
			updated, err := svc.Update(ctx, id, next)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), updated)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %d\n", def.singular, id)
			return nil
		})
	}
	return cmd
}

func entityDeleteCmd[T any](a *app, def entityDef[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", def.singular),
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				deleted, err := def.service(s.svc).Delete(ctx, id)
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]any{"id": id, "deleted": deleted})
				}
				if !deleted {
					fmt.Fprintf(cmd.OutOrStdout(), "No %s deleted\n", def.singular)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s: %d\n", def.singular, id)
				return nil
			})
		},
	}
}

func printEntity[T any](a *app, cmd *cobra.Command, def entityDef[T], e *T) error {
	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), e)
	}
	printDetail(cmd.OutOrStdout(), def.labels, def.detail(*e))
	return nil
}

// changedFields returns the name and value of every flag in fs that was
// set on the command line.
func changedFields(fs *pflag.FlagSet) map[string]string {
	out := map[string]string{}
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			out[f.Name] = f.Value.String()
		}
	})
	return out
}

// overlay applies changed flag values on top of cur and returns the result.
func overlay[T any](def entityDef[T], cur *T, changed map[string]string) (*T, error) {
	next := new(T)
	fs := pflag.NewFlagSet(def.use, pflag.ContinueOnError)
	def.bind(fs, next)
	*next = *cur
	for name, value := range changed {
		if err := fs.Set(name, value); err != nil {
			return nil, usagef("invalid --%s: %s", name, err)
		}
	}
	return next, nil
}

// parseID parses a record id argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, usagef("invalid id %q", s)
	}
	return id, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatRef(id int64) string {
	if id == 0 {
		return "-"
	}
	return strconv.FormatInt(id, 10)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// oneOf returns a usage error when v is set and not in allowed.
func oneOf(flag, v string, allowed ...string) error {
	if v == "" {
		return nil
	}
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return usagef("invalid --%s %q (valid: %s)", flag, v, strings.Join(allowed, ", "))
}
