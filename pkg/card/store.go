package card

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/bulkexchange/accesscard/pkg/domain"
)

const (
	// MaxNameLen caps the manual display name, in runes.
	MaxNameLen = 26

	// PlaceholderName is printed when neither a manual name nor a profile name exists.
	PlaceholderName = "BULK Trader"

	defaultInitial = "B"
)

// AvatarKind says which link of the avatar fallback chain produced the source.
type AvatarKind int

const (
	AvatarInitials AvatarKind = iota
	AvatarUploaded
	AvatarProfile
	AvatarRemote
)

// Input is the user-editable state of a card.
type Input struct {
	RawHandle  string
	Handle     string
	ManualName string
	Status     map[domain.StatusKey]bool
	Region     string
	Avatar     string // data:image/... URL, empty when unset
}

// NewInput returns the defaults a fresh card starts with.
func NewInput() Input {
	return Input{
		Status: map[domain.StatusKey]bool{
			domain.StatusVerified:    false,
			domain.StatusBulker:      true,
			domain.StatusLvl2:        false,
			domain.StatusOG:          false,
			domain.StatusContributor: false,
		},
	}
}

// TruncateName clips a manual name to MaxNameLen runes.
func TruncateName(name string) string {
	if utf8.RuneCountInString(name) <= MaxNameLen {
		return name
	}
	return string([]rune(name)[:MaxNameLen])
}

// View is everything printed on the card, derived from Input and the profile.
type View struct {
	Handle             string
	CardID             string
	IssueDate          string
	DisplayName        string
	AvatarSource       string
	AvatarKind         AvatarKind
	Initial            string
	ActiveStatusLabels []string
	Region             string
	RegionEmoji        string
	Access             Access
}

// Derive computes the card view. profile may be nil.
func Derive(in Input, profile *domain.Profile, issueDate string) View {
	v := View{
		Handle:    in.Handle,
		CardID:    DeriveCardID(in.Handle),
		IssueDate: issueDate,
		Region:    in.Region,
		Access:    EvaluateAccess(in.Status, in.Region),
	}

	v.DisplayName = strings.TrimSpace(in.ManualName)
	if v.DisplayName == "" && profile != nil {
		v.DisplayName = profile.Name
	}
	if v.DisplayName == "" {
		v.DisplayName = PlaceholderName
	}

	switch {
	case in.Avatar != "":
		v.AvatarSource, v.AvatarKind = in.Avatar, AvatarUploaded
	case profile != nil && profile.ProfileImageURL != "":
		v.AvatarSource, v.AvatarKind = profile.ProfileImageURL, AvatarProfile
	default:
		if u := RemoteAvatarURL(in.Handle); u != "" {
			v.AvatarSource, v.AvatarKind = u, AvatarRemote
		}
	}
	v.Initial = initialOf(in.Handle, v.DisplayName)

	profileVerified := profile != nil && profile.Verified
	for _, r := range domain.StatusRoles {
		active := in.Status[r.Key]
		if r.Key == domain.StatusVerified {
			active = active || profileVerified
		}
		if active {
			v.ActiveStatusLabels = append(v.ActiveStatusLabels, r.Label)
		}
	}

	if r, ok := domain.FindRegion(in.Region); ok {
		v.RegionEmoji = r.Emoji
	}
	return v
}

func initialOf(handle, name string) string {
	for _, s := range []string{handle, name} {
		if r, _ := utf8.DecodeRuneInString(s); r != utf8.RuneError {
			return string(unicode.ToUpper(r))
		}
	}
	return defaultInitial
}

// Store holds the card input, the latest fetched profile and the derived view.
// The view is recomputed on every write.
type Store struct {
	input     Input
	profile   *domain.Profile
	issueDate string
	view      View
}

// NewStore creates a store with default input and an issue date fixed to now.
func NewStore(now time.Time) Store {
	s := Store{input: NewInput(), issueDate: FormatIssueDate(now)}
	s.refresh()
	return s
}

// Input returns a copy of the current input.
func (s *Store) Input() Input {
	in := s.input
	in.Status = make(map[domain.StatusKey]bool, len(s.input.Status))
	for k, v := range s.input.Status {
		in.Status[k] = v
	}
	return in
}

// View returns the derived view for the current state.
func (s *Store) View() View { return s.view }

// Profile returns the profile currently applied to the card, if any.
func (s *Store) Profile() *domain.Profile { return s.profile }

// IssueDate returns the session's fixed issue date.
func (s *Store) IssueDate() string { return s.issueDate }

// SetRawHandle stores the raw field value and its sanitized handle.
// It reports whether the sanitized handle changed.
func (s *Store) SetRawHandle(raw string) bool {
	prev := s.input.Handle
	s.input.RawHandle = raw
	s.input.Handle = SanitizeHandle(raw)
	s.refresh()
	return prev != s.input.Handle
}

// SetManualName stores the display-name override, truncated to MaxNameLen.
func (s *Store) SetManualName(name string) {
	s.input.ManualName = TruncateName(name)
	s.refresh()
}

// ToggleStatus flips one status flag. Unknown keys are ignored.
func (s *Store) ToggleStatus(key domain.StatusKey) {
	if !domain.ValidStatusKey(key) {
		return
	}
	s.input.Status[key] = !s.input.Status[key]
	s.refresh()
}

// SetRegion selects a region label; labels outside the catalog clear it.
func (s *Store) SetRegion(label string) {
	if _, ok := domain.FindRegion(label); !ok {
		label = ""
	}
	s.input.Region = label
	s.refresh()
}

// SetAvatar stores an uploaded image data URL; "" removes it.
func (s *Store) SetAvatar(dataURL string) {
	s.input.Avatar = dataURL
	s.refresh()
}

// SetProfile applies a lookup result; nil clears it.
func (s *Store) SetProfile(p *domain.Profile) {
	s.profile = p
	s.refresh()
}

// Hydrate replaces the input with values read from a card query string.
func (s *Store) Hydrate(q QueryState) {
	if q.Handle != "" {
		s.input.RawHandle = q.Handle
		s.input.Handle = SanitizeHandle(q.Handle)
	}
	if q.Name != "" {
		s.input.ManualName = TruncateName(q.Name)
	}
	if _, ok := domain.FindRegion(q.Region); ok {
		s.input.Region = q.Region
	}
	s.refresh()
}

func (s *Store) refresh() {
	s.view = Derive(s.input, s.profile, s.issueDate)
}
