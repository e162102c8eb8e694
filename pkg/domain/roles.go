package domain

// StatusKey identifies one of the toggleable status roles.
type StatusKey string

const (
	StatusVerified    StatusKey = "verified"
	StatusBulker      StatusKey = "bulker"
	StatusLvl2        StatusKey = "lvl2"
	StatusOG          StatusKey = "og"
	StatusContributor StatusKey = "contributor"
)

// StatusRole is a status badge with its display label.
type StatusRole struct {
	Key   StatusKey
	Label string
}

// StatusRoles lists the status badges in display order.
var StatusRoles = []StatusRole{
	{Key: StatusVerified, Label: "Verified"},
	{Key: StatusBulker, Label: "Bulker"},
	{Key: StatusLvl2, Label: "Lvl 2"},
	{Key: StatusOG, Label: "OG"},
	{Key: StatusContributor, Label: "Contributor"},
}

// RegionRole is a single-select regional badge.
type RegionRole struct {
	Emoji string
	Label string
}

// RegionRoles is the fixed region catalog, in picker order.
var RegionRoles = []RegionRole{
	{Emoji: "🇨🇳", Label: "Chinese"},
	{Emoji: "🇯🇵", Label: "Japanese"},
	{Emoji: "🇰🇷", Label: "Korean"},
	{Emoji: "🇷🇺", Label: "Russian"},
	{Emoji: "🇺🇦", Label: "Ukrainian"},
	{Emoji: "🇹🇷", Label: "Turkish"},
	{Emoji: "🇮🇳", Label: "Indian"},
	{Emoji: "🇻🇳", Label: "Vietnamese"},
	{Emoji: "🇩🇪", Label: "German"},
	{Emoji: "🇧🇷", Label: "Brazil"},
	{Emoji: "🇮🇩", Label: "Indonesian"},
	{Emoji: "🇫🇷", Label: "French"},
	{Emoji: "🇵🇹", Label: "Portuguese"},
	{Emoji: "🇵🇭", Label: "Philippines"},
	{Emoji: "🇪🇸", Label: "Spanish"},
	{Emoji: "🇳🇬", Label: "Nigerian"},
	{Emoji: "🇧🇩", Label: "Bengali"},
	{Emoji: "🇵🇰", Label: "Pakistani"},
}

// FindRegion returns the catalog entry for label.
func FindRegion(label string) (RegionRole, bool) {
	for _, r := range RegionRoles {
		if r.Label == label {
			return r, true
		}
	}
	return RegionRole{}, false
}

// ValidStatusKey returns true if key names a known status role.
func ValidStatusKey(key StatusKey) bool {
	for _, r := range StatusRoles {
		if r.Key == key {
			return true
		}
	}
	return false
}
