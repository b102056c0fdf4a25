package main

import (
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	fixedwidth "github.com/sthagen/twking7-fixed-width"
)

// flatten lays every field of the tree side by side so records map onto
// a single flat object.
func flatten(g fixedwidth.Group) fixedwidth.Group {
	leaves := g.Leaves()
	out := make(fixedwidth.Group, len(leaves))
	for i, f := range leaves {
		out[i] = f
	}
	return out
}

// decode writes every record of cfg.in as a JSON object on its own line.
// Keys are written in field order.
func decode(cfg config, logger zerolog.Logger) error {
	opts, err := cfg.layout.Options()
	if err != nil {
		return err
	}
	fields := flatten(cfg.layout.Fields)
	r := fixedwidth.NewReader(cfg.in, opts...)
	enc := jsontext.NewEncoder(cfg.out)

	var decoded, skipped int
	for {
		record, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil && !recordFailure(err) {
			return err
		}
		if err == nil && len(record) == 0 {
			continue
		}
		var m map[string]string
		if err == nil {
			err = fixedwidth.UnmarshalFields(record, fields, &m)
		}
		if err != nil {
			if !cfg.skipInvalid {
				var re *fixedwidth.RecordError
				if errors.As(err, &re) {
					return err
				}
				return &fixedwidth.RecordError{Index: r.Count(), Err: err}
			}
			logger.Warn().Err(err).Int("record", r.Count()).Stringer("kind", fixedwidth.KindOf(err)).Msg("skipping record")
			skipped++
			continue
		}
		if err := writeObject(enc, fields, m); err != nil {
			return err
		}
		decoded++
	}
	logger.Debug().Int("records", decoded).Int("skipped", skipped).Msg("decode done")
	return nil
}

// recordFailure reports whether err spoils a single record rather than the
// whole input.
func recordFailure(err error) bool {
	var re *fixedwidth.RecordError
	var se *fixedwidth.ShortRecordError
	return errors.As(err, &re) || errors.As(err, &se)
}

func writeObject(enc *jsontext.Encoder, fields fixedwidth.Group, m map[string]string) error {
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields.Leaves() {
		k := f.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		if err := enc.WriteToken(jsontext.String(k)); err != nil {
			return err
		}
		if err := enc.WriteToken(jsontext.String(m[k])); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndObject)
}

// encode reads JSON objects from cfg.in and writes one record per object.
// Missing keys are written as padding.
func encode(cfg config, logger zerolog.Logger) error {
	opts, err := cfg.layout.Options()
	if err != nil {
		return err
	}
	fields := flatten(cfg.layout.Fields)
	w := fixedwidth.NewWriter(cfg.out, opts...)
	dec := jsontext.NewDecoder(cfg.in)

	var encoded, skipped, index int
	for {
		var m map[string]any
		err := json.UnmarshalDecode(dec, &m)
		if errors.Is(err, io.EOF) {
			break
		}
		index++
		if err != nil {
			// the stream cannot be resynchronised after a syntax error
			return errors.Wrapf(err, "object %d", index)
		}
		record, err := fixedwidth.MarshalFields(m, fields)
		if err != nil {
			if !cfg.skipInvalid {
				return &fixedwidth.RecordError{Index: index, Err: err}
			}
			logger.Warn().Err(err).Int("record", index).Stringer("kind", fixedwidth.KindOf(err)).Msg("skipping record")
			skipped++
			continue
		}
		if err := w.Write(record); err != nil {
			return err
		}
		encoded++
	}
	logger.Debug().Int("records", encoded).Int("skipped", skipped).Msg("encode done")
	return w.Flush()
}
