package matchsheet

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/riskibarqy/match-roster/internal/domain/candidate"
	"github.com/riskibarqy/match-roster/internal/domain/roster"
)

const (
	DefaultTitle    = "DISTINTA GARA"
	DefaultTeamName = "U.S. RIOLUNATO"
	DefaultMinRows  = roster.DefaultCapacity
	fileTimeLayout  = "02-01-2006_15-04"
)

// Profile carries the team-specific parts of the printed sheet.
type Profile struct {
	Title      string
	TeamName   string
	FileSlug   string
	MinRows    int
	Location   *time.Location
	Mapping    candidate.FieldMapping
	Signatures []string
}

func DefaultProfile() Profile {
	return Profile{
		Title:      DefaultTitle,
		TeamName:   DefaultTeamName,
		FileSlug:   "riolunato",
		MinRows:    DefaultMinRows,
		Location:   time.Local,
		Mapping:    candidate.DefaultFieldMapping(),
		Signatures: []string{"L'ARBITRO", "IL CAPITANO", "IL DIRIGENTE ACCOMPAGNATORE"},
	}
}

// Row is one table line. Blank rows pad the table to the profile's minimum.
type Row struct {
	Mark       string
	Name       string
	BirthDate  string
	CardNumber string
	CardIssued string
	Blank      bool
}

type Document struct {
	Title       string
	TeamName    string
	Rows        []Row
	Signatures  []string
	GeneratedAt time.Time
	FileName    string
}

// Renderer turns a document into a downloadable file.
type Renderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
	ContentType() string
	Extension() string
}

// Build lays out the roster in the order it is given and pads it with blank rows.
func Build(entries []roster.Entry, profile Profile, at time.Time, extension string) Document {
	if profile.Location != nil {
		at = at.In(profile.Location)
	}

	rows := make([]Row, 0, max(len(entries), profile.MinRows))
	for _, item := range entries {
		rows = append(rows, Row{
			Mark:       MarkCell(item),
			Name:       nameCell(item, profile.Mapping),
			BirthDate:  item.Fields[profile.Mapping.BirthDate],
			CardNumber: item.Fields[profile.Mapping.CardNumber],
			CardIssued: item.Fields[profile.Mapping.CardIssued],
		})
	}
	for len(rows) < profile.MinRows {
		rows = append(rows, Row{Blank: true})
	}

	return Document{
		Title:       profile.Title,
		TeamName:    profile.TeamName,
		Rows:        rows,
		Signatures:  append([]string(nil), profile.Signatures...),
		GeneratedAt: at,
		FileName:    FileName(profile, at, extension),
	}
}

// MarkCell is the "Mans/Num." column: the role label for special entries, otherwise the
// number followed by any marker role label.
func MarkCell(item roster.Entry) string {
	if item.IsSpecial() {
		return item.Role.Label()
	}
	mark := ""
	if item.Number > 0 {
		mark = strconv.Itoa(item.Number)
	}
	if item.Role != roster.RoleNone {
		mark = strings.TrimSpace(mark + " " + item.Role.Label())
	}
	return mark
}

func nameCell(item roster.Entry, mapping candidate.FieldMapping) string {
	name := strings.TrimSpace(strings.TrimSpace(item.Fields[mapping.LastName]) + " " + strings.TrimSpace(item.Fields[mapping.FirstName]))
	if name == "" {
		return item.Label
	}
	return name
}

// FileName is distinta-<slug>-DD-MM-YYYY_HH-MM.<extension>.
func FileName(profile Profile, at time.Time, extension string) string {
	slug := strings.TrimSpace(profile.FileSlug)
	if slug == "" {
		slug = Slugify(profile.TeamName)
	}
	name := "distinta"
	if slug != "" {
		name += "-" + slug
	}
	name += "-" + at.Format(fileTimeLayout)
	if extension = strings.TrimPrefix(extension, "."); extension != "" {
		name += "." + extension
	}
	return name
}

func Slugify(value string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(value) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if b.Len() > 0 && !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
