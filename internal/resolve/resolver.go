// Package resolve turns free-text entity references into canonical row ids
// within one store. Matching runs in tiers of decreasing confidence, and a
// multi-candidate partial match is returned to the caller for
// disambiguation instead of guessed at.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"sales-engine/internal/models"
)

type Kind string

const (
	KindCustomer Kind = "customer"
	KindProduct  Kind = "product"
)

// Tier is the confidence of a resolution, highest first.
type Tier int

const (
	TierNone Tier = iota
	TierPartial
	TierCaseInsensitive
	TierExact
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierCaseInsensitive:
		return "case_insensitive"
	case TierPartial:
		return "partial"
	default:
		return "none"
	}
}

type Candidate struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	HasDetail bool   `json:"has_detail"` // email set (customers) / description set (products)
}

type Match struct {
	ID      uint
	Name    string
	Tier    Tier
	Created bool
}

var ErrNotFound = errors.New("no matching entity")

// AmbiguousError carries the full candidate list so callers can re-ask with
// a disambiguating detail. The resolver never auto-picks, including for
// writes.
type AmbiguousError struct {
	Kind       Kind
	Ref        string
	Candidates []Candidate
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%s %q matches %d records", e.Kind, e.Ref, len(e.Candidates))
}

// CreateDefaults feed auto-created rows when a write demands an entity that
// does not exist.
type CreateDefaults struct {
	Email       *string // customers; a placeholder is generated when nil
	Price       float64 // products
	Description *string
}

type Options struct {
	AllowCreate bool
	Defaults    CreateDefaults
}

// Resolve maps a name or numeric id onto a canonical row in db. The create
// side effect, when taken, commits immediately and is not transactional with
// whatever write the caller performs next.
func Resolve(ctx context.Context, db *gorm.DB, kind Kind, ref string, opt Options) (*Match, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrNotFound
	}

	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		return resolveByID(ctx, db, kind, uint(id))
	}

	tiers := []struct {
		tier Tier
		find func() ([]Candidate, error)
	}{
		{TierExact, func() ([]Candidate, error) { return findExact(ctx, db, kind, ref, true) }},
		{TierCaseInsensitive, func() ([]Candidate, error) { return findExact(ctx, db, kind, ref, false) }},
		{TierPartial, func() ([]Candidate, error) { return findPartial(ctx, db, kind, ref) }},
	}

	for _, t := range tiers {
		cands, err := t.find()
		if err != nil {
			return nil, err
		}
		if len(cands) == 0 {
			continue
		}
		if len(cands) > 1 {
			if t.tier == TierPartial {
				return nil, &AmbiguousError{Kind: kind, Ref: ref, Candidates: cands}
			}
			// identical stored spellings; lowest id is the canonical row
		}
		return &Match{ID: cands[0].ID, Name: cands[0].Name, Tier: t.tier}, nil
	}

	if !opt.AllowCreate {
		return nil, ErrNotFound
	}
	return create(ctx, db, kind, ref, opt.Defaults)
}

func resolveByID(ctx context.Context, db *gorm.DB, kind Kind, id uint) (*Match, error) {
	switch kind {
	case KindCustomer:
		var c models.Customer
		if err := db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return &Match{ID: c.ID, Name: c.FullName, Tier: TierExact}, nil
	case KindProduct:
		var p models.Product
		if err := db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return &Match{ID: p.ID, Name: p.Name, Tier: TierExact}, nil
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
}

func findExact(ctx context.Context, db *gorm.DB, kind Kind, ref string, caseSensitive bool) ([]Candidate, error) {
	q := db.WithContext(ctx)
	// case-sensitive equality is dialect-dependent (MySQL collations are
	// case-insensitive by default); fetch the case-insensitive hits and
	// filter in memory for the exact tier
	switch kind {
	case KindCustomer:
		var rows []models.Customer
		if err := q.Where("lower(full_name) = lower(?)", ref).Order("id").Find(&rows).Error; err != nil {
			return nil, err
		}
		var out []Candidate
		for _, c := range rows {
			if caseSensitive && c.FullName != ref {
				continue
			}
			out = append(out, Candidate{ID: c.ID, Name: c.FullName, HasDetail: c.Email != nil})
		}
		return out, nil
	case KindProduct:
		var rows []models.Product
		if err := q.Where("lower(name) = lower(?)", ref).Order("id").Find(&rows).Error; err != nil {
			return nil, err
		}
		var out []Candidate
		for _, p := range rows {
			if caseSensitive && p.Name != ref {
				continue
			}
			out = append(out, Candidate{ID: p.ID, Name: p.Name, HasDetail: p.Description != nil})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
}

func findPartial(ctx context.Context, db *gorm.DB, kind Kind, ref string) ([]Candidate, error) {
	needle := "%" + strings.ToLower(ref) + "%"
	q := db.WithContext(ctx)
	switch kind {
	case KindCustomer:
		var rows []models.Customer
		err := q.Where(
			"lower(first_name) LIKE ? OR lower(last_name) LIKE ? OR lower(full_name) LIKE ?",
			needle, needle, needle,
		).Order("id").Find(&rows).Error
		if err != nil {
			return nil, err
		}
		var out []Candidate
		for _, c := range rows {
			out = append(out, Candidate{ID: c.ID, Name: c.FullName, HasDetail: c.Email != nil})
		}
		return out, nil
	case KindProduct:
		var rows []models.Product
		if err := q.Where("lower(name) LIKE ?", needle).Order("id").Find(&rows).Error; err != nil {
			return nil, err
		}
		var out []Candidate
		for _, p := range rows {
			out = append(out, Candidate{ID: p.ID, Name: p.Name, HasDetail: p.Description != nil})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
}

func create(ctx context.Context, db *gorm.DB, kind Kind, ref string, def CreateDefaults) (*Match, error) {
	switch kind {
	case KindCustomer:
		first, last := SplitName(ref)
		email := def.Email
		if email == nil {
			e := PlaceholderEmail(first, last)
			email = &e
		}
		c := models.Customer{
			FirstName: first,
			LastName:  last,
			FullName:  strings.TrimSpace(first + " " + last),
			Email:     email,
			CreatedAt: time.Now(),
		}
		if err := db.WithContext(ctx).Create(&c).Error; err != nil {
			return nil, err
		}
		return &Match{ID: c.ID, Name: c.FullName, Created: true}, nil
	case KindProduct:
		p := models.Product{
			Name:        ref,
			Price:       def.Price,
			Description: def.Description,
		}
		if err := db.WithContext(ctx).Create(&p).Error; err != nil {
			return nil, err
		}
		return &Match{ID: p.ID, Name: p.Name, Created: true}, nil
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
}

// SplitName splits a display name on the first whitespace.
func SplitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	if i := strings.IndexAny(full, " \t"); i >= 0 {
		return full[:i], strings.TrimSpace(full[i+1:])
	}
	return full, ""
}

// PlaceholderEmail builds a deterministic placeholder from the slugified
// name parts.
func PlaceholderEmail(first, last string) string {
	f, l := slug(first), slug(last)
	if l == "" {
		return f + "@example.com"
	}
	return f + "." + l + "@example.com"
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
