package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/riskibarqy/match-roster/internal/domain/candidate"
	"github.com/riskibarqy/match-roster/internal/domain/roster"
	"gopkg.in/yaml.v3"
)

const maxRosterRows = 99

// RosterProfile is the optional YAML file describing the team and its sheet layout.
type RosterProfile struct {
	TeamName   string                 `yaml:"team_name"`
	FileSlug   string                 `yaml:"file_slug"`
	Title      string                 `yaml:"title"`
	Capacity   int                    `yaml:"capacity"`
	MinRows    int                    `yaml:"min_rows"`
	Timezone   string                 `yaml:"timezone"`
	Signatures []string               `yaml:"signatures"`
	Fields     candidate.FieldMapping `yaml:"fields"`
}

func DefaultRosterProfile() RosterProfile {
	return RosterProfile{
		TeamName:   "U.S. RIOLUNATO",
		FileSlug:   "riolunato",
		Title:      "DISTINTA GARA",
		Capacity:   roster.DefaultCapacity,
		MinRows:    roster.DefaultCapacity,
		Timezone:   "Europe/Rome",
		Signatures: []string{"L'ARBITRO", "IL CAPITANO", "IL DIRIGENTE ACCOMPAGNATORE"},
		Fields:     candidate.DefaultFieldMapping(),
	}
}

// LoadRosterProfile reads path over the defaults. An empty path returns the defaults.
// Unknown keys are rejected so typos do not silently fall back.
func LoadRosterProfile(path string) (RosterProfile, error) {
	profile := DefaultRosterProfile()
	if strings.TrimSpace(path) == "" {
		return profile, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return RosterProfile{}, fmt.Errorf("read %s: %w", path, err)
	}
	if err := DecodeRosterProfile(raw, &profile); err != nil {
		return RosterProfile{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := profile.Validate(); err != nil {
		return RosterProfile{}, fmt.Errorf("validate %s: %w", path, err)
	}
	return profile, nil
}

func DecodeRosterProfile(raw []byte, into *RosterProfile) error {
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(into); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (p RosterProfile) Validate() error {
	if strings.TrimSpace(p.TeamName) == "" {
		return fmt.Errorf("team_name must not be empty")
	}
	if p.Capacity < 1 || p.Capacity > roster.DefaultCapacity {
		return fmt.Errorf("capacity must be between 1 and %d", roster.DefaultCapacity)
	}
	if p.MinRows < 0 || p.MinRows > maxRosterRows {
		return fmt.Errorf("min_rows must be between 0 and %d", maxRosterRows)
	}
	if _, err := p.Location(); err != nil {
		return err
	}
	fields := map[string]string{
		"fields.first_name":  p.Fields.FirstName,
		"fields.last_name":   p.Fields.LastName,
		"fields.birth_date":  p.Fields.BirthDate,
		"fields.card_number": p.Fields.CardNumber,
		"fields.card_issued": p.Fields.CardIssued,
	}
	for key, value := range fields {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
	}
	return nil
}

// Location resolves Timezone, defaulting to the process zone.
func (p RosterProfile) Location() (*time.Location, error) {
	if strings.TrimSpace(p.Timezone) == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", p.Timezone, err)
	}
	return loc, nil
}
