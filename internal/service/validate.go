package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/pkordes/trek-booking/internal/domain"
	"github.com/pkordes/trek-booking/internal/flexlist"
)

// problems accumulates every validation failure of one input so the client
// sees all of them at once.
type problems struct {
	err error
}

func (p *problems) add(format string, args ...any) {
	p.err = multierr.Append(p.err, fmt.Errorf(format, args...))
}

func (p *problems) addErr(err error) {
	p.err = multierr.Append(p.err, err)
}

// result returns nil or a *domain.ValidationError listing each problem.
func (p *problems) result() error {
	errs := multierr.Errors(p.err)
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return domain.NewValidationError(msgs)
}

// required records a problem when v is blank.
func (p *problems) required(field, v string) {
	if strings.TrimSpace(v) == "" {
		p.add("%s is required", field)
	}
}

func decodeList[T any](p *problems, field string, v flexlist.Value) []T {
	r := flexlist.Decode[T](field, v)
	if !r.OK() {
		p.addErr(r.Err)
		return nil
	}
	return r.Items
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

var errBadDate = errors.New("unrecognised date")

// parseDate accepts RFC 3339 timestamps and bare calendar dates (UTC).
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errBadDate
}

// window validates a required start/end pair.
func (p *problems) window(start, end string) (time.Time, time.Time) {
	var s, e time.Time
	var okS, okE bool
	switch {
	case strings.TrimSpace(start) == "":
		p.add("start date is missing")
	default:
		var err error
		if s, err = parseDate(start); err != nil {
			p.add("start date is invalid")
		} else {
			okS = true
		}
	}
	switch {
	case strings.TrimSpace(end) == "":
		p.add("end date is missing")
	default:
		var err error
		if e, err = parseDate(end); err != nil {
			p.add("end date is invalid")
		} else {
			okE = true
		}
	}
	if okS && okE && !s.Before(e) {
		p.add("start date must be before end date")
	}
	return s, e
}

// optionalDate parses s when supplied. ok is false when s is blank or invalid.
func (p *problems) optionalDate(field, s string) (t time.Time, ok bool) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, false
	}
	t, err := parseDate(s)
	if err != nil {
		p.add("%s is invalid", field)
		return time.Time{}, false
	}
	return t, true
}

// schedule checks every entry carries day, time and work.
func (p *problems) schedule(entries []domain.ScheduleEntry) {
	for i, e := range entries {
		if strings.TrimSpace(e.Day) == "" {
			p.add("day is missing at index %d", i)
		}
		if strings.TrimSpace(e.Time) == "" {
			p.add("time is missing at index %d", i)
		}
		if strings.TrimSpace(e.Work) == "" {
			p.add("work is missing at index %d", i)
		}
	}
}

func (p *problems) difficulty(s string) domain.Difficulty {
	d, err := domain.ParseDifficulty(s)
	if err != nil {
		p.add("trekDifficulty must be one of easy, moderate, difficult")
	}
	return d
}

func (p *problems) altitude(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.add("altitude must be a number")
		return nil
	}
	return &f
}

func (p *problems) id(field, s string) *uuid.UUID {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		p.add("%s must be a valid id", field)
		return nil
	}
	return &id
}
