package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"refereehub/internal/domain"
)

// File is the layout of a seed YAML document.
type File struct {
	Zones              []ZoneSeed           `yaml:"zones"`
	TournamentTypes    []TournamentTypeSeed `yaml:"tournament_types"`
	Clubs              []ClubSeed           `yaml:"clubs"`
	InstitutionalEmail []InstitutionalSeed  `yaml:"institutional_emails"`
	Users              []UserSeed           `yaml:"users"`
}

type ZoneSeed struct {
	Name       string `yaml:"name"`
	Code       string `yaml:"code"`
	IsNational bool   `yaml:"is_national"`
}

type TournamentTypeSeed struct {
	Name        string `yaml:"name"`
	Code        string `yaml:"code"`
	MinReferees int    `yaml:"min_referees"`
	MaxReferees int    `yaml:"max_referees"`
	IsNational  bool   `yaml:"is_national"`
	SortOrder   int    `yaml:"sort_order"`
}

type ClubSeed struct {
	Name  string `yaml:"name"`
	Code  string `yaml:"code"`
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
	City  string `yaml:"city"`
	Zone  string `yaml:"zone"`
}

type InstitutionalSeed struct {
	Name        string `yaml:"name"`
	Email       string `yaml:"email"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	// Zone is a zone code; empty means the address applies to every zone.
	Zone       string `yaml:"zone"`
	ReceiveAll bool   `yaml:"receive_all_notifications"`
}

type UserSeed struct {
	Email       string `yaml:"email"`
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	Password    string `yaml:"password"`
	Role        string `yaml:"role"`
	Level       string `yaml:"level"`
	RefereeCode string `yaml:"referee_code"`
	Zone        string `yaml:"zone"`
}

// Parse decodes a seed document and checks its references.
func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	zones := make(map[string]bool, len(f.Zones))
	for _, z := range f.Zones {
		if z.Code == "" || z.Name == "" {
			return fmt.Errorf("zone %q: name and code are required", z.Code)
		}
		zones[z.Code] = true
	}
	for _, t := range f.TournamentTypes {
		tt := domain.TournamentType{MinReferees: t.MinReferees, MaxReferees: t.MaxReferees}
		if t.Code == "" || !tt.ValidBounds() {
			return fmt.Errorf("tournament type %q: code and 1 <= min_referees <= max_referees are required", t.Code)
		}
	}
	for _, c := range f.Clubs {
		if c.Code == "" || c.Email == "" {
			return fmt.Errorf("club %q: code and email are required", c.Name)
		}
		if !zones[c.Zone] {
			return fmt.Errorf("club %q: unknown zone %q", c.Code, c.Zone)
		}
	}
	for _, e := range f.InstitutionalEmail {
		if !domain.ValidInstitutionalCategory(e.Category) {
			return fmt.Errorf("institutional email %q: unknown category %q", e.Email, e.Category)
		}
		if e.Zone != "" && !zones[e.Zone] {
			return fmt.Errorf("institutional email %q: unknown zone %q", e.Email, e.Zone)
		}
	}
	for _, u := range f.Users {
		if !domain.ValidRole(u.Role) {
			return fmt.Errorf("user %q: unknown role %q", u.Email, u.Role)
		}
		if u.Level != "" && !domain.ValidLevel(u.Level) {
			return fmt.Errorf("user %q: unknown level %q", u.Email, u.Level)
		}
		if u.Role != domain.RoleSuperAdmin && !zones[u.Zone] {
			return fmt.Errorf("user %q: a zone is required for role %s", u.Email, u.Role)
		}
		if len(u.Password) < 8 {
			return fmt.Errorf("user %q: password must be at least 8 characters", u.Email)
		}
	}
	return nil
}

// Seeder writes a seed document through the repositories. Rows whose code or email already
// exists are left untouched, so a seed can be applied repeatedly.
type Seeder struct {
	Zones         domain.ZoneRepository
	Types         domain.TournamentTypeRepository
	Clubs         domain.ClubRepository
	Institutional domain.InstitutionalEmailRepository
	Users         domain.UserRepository
	Hasher        domain.PasswordHasher
	Logger        *slog.Logger
	Now           func() time.Time
}

// Apply inserts the content of f and returns the number of created rows.
func (s *Seeder) Apply(ctx context.Context, f *File) (int, error) {
	created := 0
	now := s.Now()

	for _, z := range f.Zones {
		zone := &domain.Zone{Name: z.Name, Code: z.Code, IsNational: z.IsNational, CreatedAt: now}
		ok, err := s.insert("zone", z.Code, s.Zones.Create(ctx, zone))
		if err != nil {
			return created, err
		}
		created += ok
	}
	zoneIDs, err := s.zoneIDs(ctx)
	if err != nil {
		return created, err
	}

	for _, t := range f.TournamentTypes {
		tt := &domain.TournamentType{
			Name: t.Name, Code: t.Code, MinReferees: t.MinReferees, MaxReferees: t.MaxReferees,
			IsNational: t.IsNational, SortOrder: t.SortOrder,
		}
		ok, err := s.insert("tournament type", t.Code, s.Types.Create(ctx, tt))
		if err != nil {
			return created, err
		}
		created += ok
	}

	for _, c := range f.Clubs {
		club := &domain.Club{
			Name: c.Name, Code: c.Code, Email: strings.ToLower(c.Email), Phone: c.Phone, City: c.City,
			ZoneID: zoneIDs[c.Zone], IsActive: true, CreatedAt: now, UpdatedAt: now,
		}
		ok, err := s.insert("club", c.Code, s.Clubs.Create(ctx, club))
		if err != nil {
			return created, err
		}
		created += ok
	}

	existing, err := s.Institutional.List(ctx, domain.InstitutionalEmailFilter{})
	if err != nil {
		return created, fmt.Errorf("list institutional emails: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, e := range existing {
		known[strings.ToLower(e.Email)] = true
	}
	for _, e := range f.InstitutionalEmail {
		addr := strings.ToLower(e.Email)
		if known[addr] {
			s.Logger.Info("seed row already present", "kind", "institutional email", "key", addr)
			continue
		}
		row := &domain.InstitutionalEmail{
			Name: e.Name, Email: addr, Description: e.Description, Category: e.Category,
			ReceiveAllNotifications: e.ReceiveAll, IsActive: true,
		}
		if e.Zone != "" {
			id := zoneIDs[e.Zone]
			row.ZoneID = &id
		}
		if err := s.Institutional.Create(ctx, row); err != nil {
			return created, fmt.Errorf("create institutional email %s: %w", addr, err)
		}
		known[addr] = true
		created++
	}

	for _, u := range f.Users {
		ok, err := s.createUser(ctx, u, zoneIDs, now)
		if err != nil {
			return created, err
		}
		created += ok
	}
	return created, nil
}

func (s *Seeder) createUser(ctx context.Context, u UserSeed, zoneIDs map[string]string, now time.Time) (int, error) {
	salt, err := s.Hasher.GenerateSalt()
	if err != nil {
		return 0, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.Hasher.Hash(salt, u.Password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	level := u.Level
	if level == "" {
		level = domain.LevelAspirante
	}
	user := &domain.User{
		Email: strings.ToLower(u.Email), FirstName: u.FirstName, LastName: u.LastName,
		RefereeCode: u.RefereeCode, Level: level, Role: u.Role, IsActive: true,
		PasswordHash: hash, Salt: salt, CreatedAt: now, UpdatedAt: now,
	}
	if u.Zone != "" {
		id := zoneIDs[u.Zone]
		user.ZoneID = &id
	}
	return s.insert("user", user.Email, s.Users.Create(ctx, user))
}

func (s *Seeder) insert(kind, key string, err error) (int, error) {
	switch {
	case err == nil:
		s.Logger.Info("seed row created", "kind", kind, "key", key)
		return 1, nil
	case errors.Is(err, domain.ErrDuplicateCode), errors.Is(err, domain.ErrDuplicateEmail):
		s.Logger.Info("seed row already present", "kind", kind, "key", key)
		return 0, nil
	default:
		return 0, fmt.Errorf("create %s %s: %w", kind, key, err)
	}
}

func (s *Seeder) zoneIDs(ctx context.Context) (map[string]string, error) {
	zones, err := s.Zones.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	ids := make(map[string]string, len(zones))
	for _, z := range zones {
		ids[z.Code] = z.ID
	}
	return ids, nil
}
