package extract

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Extractor resolves a ProductRecord from a page by running each field's
// cascade. It keeps no per-call state and is safe for concurrent use.
type Extractor struct {
	cascades []Cascade
	logger   *zerolog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithCascades replaces the default cascades.
func WithCascades(cascades ...Cascade) Option {
	return func(e *Extractor) { e.cascades = cascades }
}

// WithLogger sets the logger used for resolution traces. Defaults to the
// global zerolog logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Extractor) { e.logger = &l }
}

func New(opts ...Option) *Extractor {
	e := &Extractor{cascades: DefaultCascades()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses body and resolves its record. Only a parse failure is an
// error; unresolved fields are left nil.
func (e *Extractor) Extract(body []byte, contentType string) (ProductRecord, error) {
	page, err := Parse(body, contentType)
	if err != nil {
		return ProductRecord{}, err
	}
	rec, _ := e.Resolve(page)
	return rec, nil
}

// Resolve runs every cascade over p. Within a cascade the first strategy
// returning a non-empty value wins and later strategies are not consulted.
func (e *Extractor) Resolve(p *Page) (ProductRecord, Provenance) {
	var rec ProductRecord
	prov := Provenance{}
	l := e.log()
	for _, c := range e.cascades {
		for _, s := range c.Strategies {
			if rec.Has(c.Field) {
				break
			}
			v, ok := e.attempt(s, p)
			if !ok || !rec.set(c.Field, v) {
				continue
			}
			prov[c.Field] = s.Name
			l.Debug().Str("field", string(c.Field)).Str("strategy", s.Name).Str("value", v).Msg("field resolved")
		}
		if !rec.Has(c.Field) {
			l.Debug().Str("field", string(c.Field)).Msg("field unresolved")
		}
	}
	return rec, prov
}

// attempt runs one strategy, turning a panic into a miss.
func (e *Extractor) attempt(s Strategy, p *Page) (value string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			l := e.log()
			l.Debug().Str("strategy", s.Name).Interface("panic", r).Msg("strategy failed")
			value, ok = "", false
		}
	}()
	value, ok = s.Resolve(p)
	value = cleanText(value)
	return value, ok && value != ""
}

func (e *Extractor) log() *zerolog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return &log.Logger
}
