package bench

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/runningwild/microbench/pkg/analyze"
	"github.com/runningwild/microbench/pkg/report"
)

// Predictor columns accepted by Reduce.
const (
	PredictRuns = "runs" // Runs in the batch
	PredictOne  = "one"  // Constant term
)

// Reduce fits every channel of every result against the predictor columns
// and returns one record group per channel, in Channels order. A fit that
// does not yield exactly one coefficient is dropped.
func Reduce(results []Result, predictors []string) ([]report.ChannelRecords, error) {
	if len(predictors) == 0 {
		predictors = []string{PredictRuns}
	}
	out := make([]report.ChannelRecords, len(Channels))
	for i, ch := range Channels {
		out[i].Channel = ch
	}

	for _, res := range results {
		cols, err := columns(res.Samples, predictors)
		if err != nil {
			return nil, err
		}
		for i, ch := range Channels {
			y := make([]float64, len(res.Samples))
			for j, s := range res.Samples {
				y[j] = s.Values[ch]
			}
			est, err := analyze.OLS(cols, y)
			if err != nil {
				return nil, errors.Wrapf(err, "%s/%d %s", res.Name, res.Param, ch)
			}
			fields := log.Fields{"case": res.Name, "size": res.Param, "channel": ch}
			if len(est.Coefficients) != 1 {
				log.WithFields(fields).Debugf("Dropping estimate with %d coefficients", len(est.Coefficients))
				continue
			}
			log.WithFields(fields).Debugf("r² = %.4f", est.RSquared)
			out[i].Records = append(out[i].Records, report.Record{
				Name:  res.Name,
				Param: res.Param,
				Value: est.Coefficients[0],
			})
		}
	}
	return out, nil
}

func columns(samples []Sample, predictors []string) ([][]float64, error) {
	cols := make([][]float64, len(predictors))
	for j, p := range predictors {
		col := make([]float64, len(samples))
		for i, s := range samples {
			switch p {
			case PredictRuns:
				col[i] = float64(s.Runs)
			case PredictOne:
				col[i] = 1
			default:
				return nil, errors.Errorf("unknown predictor %q", p)
			}
		}
		cols[j] = col
	}
	return cols, nil
}
