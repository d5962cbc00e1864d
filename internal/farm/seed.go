package farm

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/farmbook/pkg/types"
)

// Fixtures is a seed data set. Fixture ids on farms and crops are local to
// the file: references to them are rewritten to the ids the store assigns.
type Fixtures struct {
	Farms      []types.Farm      `yaml:"farms"`
	Crops      []types.Crop      `yaml:"crops"`
	Tasks      []types.Task      `yaml:"tasks"`
	Financials []types.Financial `yaml:"financials"`
	Weather    []types.Weather   `yaml:"weather"`
}

// SeedResult counts the records written per entity.
type SeedResult struct {
	Farms      int `json:"farms"`
	Crops      int `json:"crops"`
	Tasks      int `json:"tasks"`
	Financials int `json:"financials"`
	Weather    int `json:"weather"`
}

// LoadFixtures decodes a YAML fixture file. Unknown keys are rejected.
func LoadFixtures(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var fx Fixtures
	if err := dec.Decode(&fx); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return &fx, nil
}

// Seed writes fx through the services. Weather has no write path in the
// services, so its rows go straight to store. Seeding stops at the first
// failure; records written before it are kept.
func Seed(ctx context.Context, store types.RecordStore, svc *Services, fx *Fixtures) (SeedResult, error) {
	var res SeedResult
	farmIDs := map[int64]int64{}
	cropIDs := map[int64]int64{}

	for i := range fx.Farms {
		f := fx.Farms[i]
		created, err := svc.Farms.Create(ctx, &f)
		if err != nil {
			return res, seedError("farm", i, err)
		}
		remember(farmIDs, fx.Farms[i].ID, created.ID)
		res.Farms++
	}
	for i := range fx.Crops {
		c := fx.Crops[i]
		c.FarmID = remap(farmIDs, c.FarmID)
		created, err := svc.Crops.Create(ctx, &c)
		if err != nil {
			return res, seedError("crop", i, err)
		}
		remember(cropIDs, fx.Crops[i].ID, created.ID)
		res.Crops++
	}
	for i := range fx.Tasks {
		t := fx.Tasks[i]
		t.CropID = remap(cropIDs, t.CropID)
		if _, err := svc.Tasks.Create(ctx, &t); err != nil {
			return res, seedError("task", i, err)
		}
		res.Tasks++
	}
	for i := range fx.Financials {
		f := fx.Financials[i]
		f.CropID = remap(cropIDs, f.CropID)
		if _, err := svc.Financials.Create(ctx, &f); err != nil {
			return res, seedError("financial record", i, err)
		}
		res.Financials++
	}

	if len(fx.Weather) > 0 {
		records := make([]types.Record, 0, len(fx.Weather))
		for i := range fx.Weather {
			w := fx.Weather[i]
			day, err := types.NormalizeDate(w.Date)
			if err != nil {
				return res, seedError("weather", i, types.Validationf("Invalid date %q", w.Date))
			}
			w.Date = day
			records = append(records, WeatherFields.ToRecord(&w))
		}
		resp, err := store.CreateRecord(ctx, types.TableWeather, types.WriteParams{Records: records})
		if err != nil {
			return res, types.NewError(types.ErrNetwork, "create", types.TableWeather, "Failed to create weather", err)
		}
		for i, row := range resp.Results {
			if !row.Success {
				msg := row.Message
				if msg == "" {
					msg = "Failed to create weather"
				}
				return res, seedError("weather", i, types.NewError(types.ErrRemoteFailure, "create", types.TableWeather, msg, nil))
			}
			res.Weather++
		}
		if !resp.Success && res.Weather == 0 {
			return res, types.NewError(types.ErrRemoteFailure, "create", types.TableWeather, resp.Message, nil)
		}
	}
	return res, nil
}

func remember(ids map[int64]int64, fixtureID, storeID int64) {
	if fixtureID > 0 {
		ids[fixtureID] = storeID
	}
}

// remap resolves a fixture reference. Unknown references pass through so
// fixtures can point at records already in the store.
func remap(ids map[int64]int64, ref int64) int64 {
	if id, ok := ids[ref]; ok {
		return id
	}
	return ref
}

func seedError(entity string, index int, err error) error {
	return fmt.Errorf("seed %s #%d: %w", entity, index+1, err)
}
