package bench

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// StaticLeaky evaluates the static protocol with global preprocessing: the
// rolling mean is computed over the entire series before the chronological
// split, encoding future information into the training features. This is
// the leakage pattern the audit rubric scores against, reproduced here on
// purpose.
func StaticLeaky(y []float64, cfg Config) (map[int]HorizonResult, error) {
	n := len(y)
	split := int(float64(n) * cfg.TrainFrac)
	if split <= cfg.Lags+1 {
		return nil, fmt.Errorf("training window too short: split=%d lags=%d", split, cfg.Lags)
	}

	// Leakage: rolling mean over the full series, then split.
	rolled := rollingMean(y, cfg.Window)
	train := rolled[:split]

	sc := fitScaler(train)
	trainScaled := sc.transform(train)

	x, target := laggedMatrix(trainScaled, cfg.Lags)
	model, err := fitRidge(x, target, cfg.Alpha)
	if err != nil {
		return nil, err
	}

	// Further leakage, as published: forecast features come from the
	// rolled series inside the test period.
	features := reversed(sc.transform(rolled[split : split+cfg.Lags]))
	pred := sc.inverse(model.predict(features))
	persist := y[split-1]

	results := make(map[int]HorizonResult, len(cfg.Horizons))
	for _, h := range cfg.Horizons {
		if split+cfg.Lags+h >= n {
			continue
		}
		truth := y[split+h-1]
		errModel := (pred - truth) * (pred - truth)
		errPersist := (persist - truth) * (persist - truth)

		results[h] = HorizonResult{
			Horizon: h,
			RMSE:    math.Sqrt(errModel),
			Skill:   skillScore(errModel, errPersist),
		}
	}
	return results, nil
}

// RollingOriginCausal evaluates the rolling-origin protocol with causal
// preprocessing: at each origin the rolling mean and the scaler see only
// data up to that origin, simulating operational deployment. Origins are
// independent and evaluated concurrently.
func RollingOriginCausal(ctx context.Context, y []float64, cfg Config) (map[int]HorizonResult, error) {
	n := len(y)
	maxH := 0
	for _, h := range cfg.Horizons {
		if h > maxH {
			maxH = h
		}
	}

	origins := make([]int, 0)
	for o := cfg.MinTrain; o < n-maxH; o += cfg.Step {
		origins = append(origins, o)
	}
	if len(origins) == 0 {
		return nil, fmt.Errorf("no forecast origins: series too short for min_train=%d", cfg.MinTrain)
	}

	type originResult struct {
		rmse  map[int]float64
		skill map[int]float64
	}
	perOrigin := make([]*originResult, len(origins))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, origin := range origins {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			// Strictly past data only.
			rolledTrain := rollingMean(y[:origin], cfg.Window)
			sc := fitScaler(rolledTrain)
			trainScaled := sc.transform(rolledTrain)

			x, target := laggedMatrix(trainScaled, cfg.Lags)
			model, err := fitRidge(x, target, cfg.Alpha)
			if err != nil {
				return fmt.Errorf("origin %d: %w", origin, err)
			}

			features := reversed(trainScaled[len(trainScaled)-cfg.Lags:])
			pred := sc.inverse(model.predict(features))
			persist := y[origin-1]

			res := &originResult{
				rmse:  make(map[int]float64, len(cfg.Horizons)),
				skill: make(map[int]float64, len(cfg.Horizons)),
			}
			for _, h := range cfg.Horizons {
				if origin+h >= n {
					continue
				}
				truth := y[origin+h-1]
				errModel := (pred - truth) * (pred - truth)
				errPersist := (persist - truth) * (persist - truth)
				res.rmse[h] = math.Sqrt(errModel)
				res.skill[h] = skillScore(errModel, errPersist)
			}
			perOrigin[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Debug("rolling-origin evaluation done", "origins", len(origins))

	// Aggregate means across origins per horizon.
	results := make(map[int]HorizonResult, len(cfg.Horizons))
	for _, h := range cfg.Horizons {
		var rmseSum, skillSum float64
		count := 0
		for _, res := range perOrigin {
			if res == nil {
				continue
			}
			if v, ok := res.rmse[h]; ok {
				rmseSum += v
				skillSum += res.skill[h]
				count++
			}
		}
		if count == 0 {
			continue
		}
		results[h] = HorizonResult{
			Horizon: h,
			RMSE:    rmseSum / float64(count),
			Skill:   skillSum / float64(count),
		}
	}
	return results, nil
}

// skillScore is 1 - SE_model/SE_persistence; zero when persistence is
// exact (degenerate denominator).
func skillScore(errModel, errPersist float64) float64 {
	if errPersist <= 0 {
		return 0
	}
	return 1 - errModel/errPersist
}
