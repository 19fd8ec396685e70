package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/heartmarshall/backoffice/internal/domain"
)

// Form is the modal create/update form of one screen.
type Form struct {
	desc    *Descriptor
	mutator *Mutator
	holder  DraftHolder
	log     *slog.Logger
}

// NewForm creates a closed form.
func NewForm(desc *Descriptor, mutator *Mutator, log *slog.Logger) *Form {
	return &Form{
		desc:    desc,
		mutator: mutator,
		log:     log.With("component", "form", "entity", desc.Name),
	}
}

// Add opens the form for a new record.
func (f *Form) Add() error {
	if f.desc.ReadOnly {
		return fmt.Errorf("%s is read-only: %w", f.desc.Name, ErrInvalidTransition)
	}
	return f.holder.Open(domain.FormCreate, nil)
}

// Edit opens the form on a copy of rec.
func (f *Form) Edit(rec domain.Record) error {
	if f.desc.ReadOnly {
		return fmt.Errorf("%s is read-only: %w", f.desc.Name, ErrInvalidTransition)
	}
	seed := rec
	if f.desc.ToDraft != nil {
		seed = f.desc.ToDraft(rec)
	}
	return f.holder.Open(domain.FormUpdate, seed)
}

// SetField converts value for the field's kind and patches the draft.
// Text input for numbers and enums is parsed here.
func (f *Form) SetField(name string, value any) error {
	spec, ok := f.desc.Field(name)
	if !ok {
		return domain.NewValidationError(name, "unknown field")
	}
	if !f.holder.Mode().IsOpen() {
		return fmt.Errorf("set %s on closed form: %w", name, ErrInvalidTransition)
	}

	v, err := convert(spec, value)
	if err != nil {
		return err
	}
	f.holder.Patch(domain.Record{name: v})
	return nil
}

// Submit sends the draft. Create merges the descriptor scope into the
// input; update sends the whole draft including id. The form closes only
// on success; on failure mode and draft are kept for another attempt.
// A Submit while another is in flight fails with ErrInvalidTransition.
func (f *Form) Submit(ctx context.Context) (domain.Record, error) {
	mode, draft, err := f.holder.Begin()
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	rec, err := f.send(ctx, mode, draft)
	f.holder.End(err == nil)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (f *Form) send(ctx context.Context, mode domain.FormMode, draft domain.Record) (domain.Record, error) {
	switch mode {
	case domain.FormCreate:
		input := draft.Merge(f.desc.Scope)
		if err := f.validate(input); err != nil {
			return nil, err
		}
		rec, err := f.mutator.Create(ctx, input)
		if err != nil {
			return nil, err
		}
		f.log.DebugContext(ctx, "created", slog.String("id", rec.ID()))
		return rec, nil

	case domain.FormUpdate:
		if err := f.validate(draft); err != nil {
			return nil, err
		}
		rec, err := f.mutator.Update(ctx, draft)
		if err != nil {
			return nil, err
		}
		f.log.DebugContext(ctx, "updated", slog.String("id", rec.ID()))
		return rec, nil

	default:
		return nil, fmt.Errorf("submit %s: %w", mode, ErrInvalidTransition)
	}
}

// Cancel closes the form and discards the draft.
func (f *Form) Cancel() {
	f.holder.Close()
}

// Submitting reports whether a Submit is in flight.
func (f *Form) Submitting() bool { return f.holder.Submitting() }

// Mode returns the form mode.
func (f *Form) Mode() domain.FormMode { return f.holder.Mode() }

// Draft returns a copy of the draft.
func (f *Form) Draft() domain.Record { return f.holder.Draft() }

// Value returns the draft value of a field; absent fields read as nil.
func (f *Form) Value(name string) any { return f.holder.Get(name) }

// Fields returns the field specs.
func (f *Form) Fields() []FieldSpec { return f.desc.Fields }

func (f *Form) validate(input domain.Record) error {
	ve := &domain.ValidationError{}
	for _, spec := range f.desc.Fields {
		if !spec.Required {
			continue
		}
		if isBlank(input[spec.Name]) {
			ve.Errors = append(ve.Errors, domain.FieldError{Field: spec.Name, Message: "required"})
		}
	}
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []string:
		return len(x) == 0
	default:
		return false
	}
}

func convert(spec FieldSpec, value any) (any, error) {
	switch spec.Kind {
	case FieldNumber:
		return toNumber(spec.Name, value)
	case FieldEnum:
		return toEnum(spec, value)
	case FieldLookup:
		if value == nil {
			return nil, nil
		}
		s, ok := value.(string)
		if !ok {
			return nil, domain.NewValidationError(spec.Name, "expected an id")
		}
		return s, nil
	default:
		if value == nil {
			return "", nil
		}
		if s, ok := value.(string); ok {
			return s, nil
		}
		return domain.FormatValue(value), nil
	}
}

func toNumber(name string, value any) (any, error) {
	switch x := value.(type) {
	case int, int64, float64:
		return x, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil, nil
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n, nil
		}
		fl, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, domain.NewValidationError(name, "must be a number")
		}
		return fl, nil
	case nil:
		return nil, nil
	default:
		return nil, domain.NewValidationError(name, "must be a number")
	}
}

func toEnum(spec FieldSpec, value any) (any, error) {
	var picked []string
	switch x := value.(type) {
	case nil:
	case []string:
		picked = x
	case []any:
		for _, v := range x {
			picked = append(picked, domain.FormatValue(v))
		}
	case string:
		for _, part := range strings.Split(x, ",") {
			if p := strings.TrimSpace(part); p != "" {
				picked = append(picked, p)
			}
		}
	default:
		return nil, domain.NewValidationError(spec.Name, "expected a list of options")
	}

	out := make([]string, 0, len(picked))
	for _, p := range picked {
		if len(spec.Options) > 0 && !slices.Contains(spec.Options, p) {
			return nil, domain.NewValidationError(spec.Name, fmt.Sprintf("unknown option %q", p))
		}
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out, nil
}
