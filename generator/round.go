package generator

import (
	"io"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/sourcegen/model"
)

// Round owns the mutable state of one processing round. Hosts create one
// Round per compilation round (or call Reset at round start) instead of
// accumulating in process-wide globals; everything discovered during the
// round is attributable and dies with it.
type Round struct {
	log       commonlog.Logger
	generated []string
	origins   map[string][]Element
}

func NewRound() *Round {
	r := &Round{
		log: commonlog.GetLogger("sourcegen.generator"),
	}
	r.Reset()
	return r
}

// Reset clears all per-round accumulation. Safe to call between rounds on
// a reused Round.
func (r *Round) Reset() {
	r.generated = nil
	r.origins = make(map[string][]Element)
}

// Render writes one definition through the renderer and records it as
// generated in this round, with its originating elements.
func (r *Round) Render(renderer Renderer, def model.ObjectDef, w io.Writer, originating ...Element) error {
	name := def.QualifiedName()
	if err := renderer.Write(def, w, originating...); err != nil {
		r.log.Errorf("rendering %s as %s: %s", name, renderer.Language(), err.Error())
		return err
	}
	r.generated = append(r.generated, name)
	if len(originating) > 0 {
		r.origins[name] = append(r.origins[name], originating...)
	}
	r.log.Debugf("rendered %s as %s", name, renderer.Language())
	return nil
}

// Generated lists the qualified names rendered this round, in order.
func (r *Round) Generated() []string {
	out := make([]string, len(r.generated))
	copy(out, r.generated)
	return out
}

// Origins returns the provenance tokens recorded for a generated name.
func (r *Round) Origins(qualifiedName string) []Element {
	return r.origins[qualifiedName]
}
