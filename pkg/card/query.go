package card

import (
	"fmt"
	"net/url"
	"strings"
)

// Query parameter names of a card URL.
const (
	ParamHandle = "u"
	ParamName   = "name"
	ParamRegion = "region"
)

// QueryState is the bookmarkable subset of Input.
type QueryState struct {
	Handle string
	Name   string
	Region string
}

// QueryStateOf extracts the bookmarkable fields of in.
func QueryStateOf(in Input) QueryState {
	return QueryState{
		Handle: in.Handle,
		Name:   strings.TrimSpace(in.ManualName),
		Region: in.Region,
	}
}

// Encode writes the state into v, deleting parameters whose value is empty.
// Unrelated parameters in v are kept.
func (q QueryState) Encode(v url.Values) url.Values {
	if v == nil {
		v = url.Values{}
	}
	set := func(key, value string) {
		if value == "" {
			v.Del(key)
			return
		}
		v.Set(key, value)
	}
	set(ParamHandle, q.Handle)
	set(ParamName, q.Name)
	set(ParamRegion, q.Region)
	return v
}

// DecodeQuery reads the card parameters from v. The name is clipped to
// MaxNameLen and the handle left raw; Store.Hydrate sanitizes it.
func DecodeQuery(v url.Values) QueryState {
	return QueryState{
		Handle: v.Get(ParamHandle),
		Name:   TruncateName(v.Get(ParamName)),
		Region: v.Get(ParamRegion),
	}
}

// CardURL returns base with its query replaced by the card state.
func CardURL(base string, q QueryState) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("card.CardURL: parse base: %w", err)
	}
	u.RawQuery = q.Encode(u.Query()).Encode()
	return u.String(), nil
}

// ParseCardRef accepts a full card URL, a bare query string ("u=alice&region=German"
// or "?u=alice") or a plain handle, and returns the card state it describes.
func ParseCardRef(ref string) (QueryState, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return QueryState{}, nil
	}
	if strings.Contains(ref, "://") {
		u, err := url.Parse(ref)
		if err != nil {
			return QueryState{}, fmt.Errorf("card.ParseCardRef: %w", err)
		}
		return DecodeQuery(u.Query()), nil
	}
	if strings.HasPrefix(ref, "?") || strings.Contains(ref, "=") {
		v, err := url.ParseQuery(strings.TrimPrefix(ref, "?"))
		if err != nil {
			return QueryState{}, fmt.Errorf("card.ParseCardRef: %w", err)
		}
		return DecodeQuery(v), nil
	}
	return QueryState{Handle: ref}, nil
}
