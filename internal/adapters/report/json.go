package report

import (
	"encoding/json"
	"io"

	"github.com/muesli/termenv"
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
)

var _ ports.Reporter = (*JSON)(nil)

// JSON implements ports.Reporter by writing one indented JSON document per call.
type JSON struct {
	enc *json.Encoder
}

// NewJSON creates a JSON reporter writing to w.
func NewJSON(w io.Writer) *JSON {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return &JSON{enc: enc}
}

func (j *JSON) Plan(plan domain.ExecutionPlan) error {
	return j.enc.Encode(plan)
}

func (j *JSON) Run(report domain.RunReport) error {
	return j.enc.Encode(report)
}

func (j *JSON) Verification(result domain.VerificationResult) error {
	return j.enc.Encode(result)
}

func (j *JSON) CacheStats(stats domain.CacheStats) error {
	return j.enc.Encode(stats)
}

func (j *JSON) Trends(trends domain.Trends) error {
	return j.enc.Encode(trends)
}

// New returns the JSON reporter when asJSON is set and the text reporter with the given
// color profile otherwise.
func New(w io.Writer, asJSON bool, profileFn func() termenv.Profile) ports.Reporter {
	if asJSON {
		return NewJSON(w)
	}
	return NewTextWithProfile(w, profileFn)
}
