package tokens

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed claim set carried in the bearer token.
type Claims struct {
	Roles       []string   `json:"roles,omitempty"`
	Permissions []string   `json:"permissions,omitempty"`
	TenantID    string     `json:"tenantId,omitempty"`
	SessionID   string     `json:"sessionId,omitempty"`
	SiteIDs     StringList `json:"siteIds,omitempty"`
	Sites       SiteList   `json:"sites,omitempty"`
	jwt.RegisteredClaims
}

// Site is a geofence: a centre and a radius in metres.
type Site struct {
	Latitude             float64 `json:"latitude" yaml:"latitude"`
	Longitude            float64 `json:"longitude" yaml:"longitude"`
	GeofenceRadiusMetres float64 `json:"geofenceRadiusMetres" yaml:"geofenceRadiusMetres"`
}

// SiteList decodes the sites claim. Entries missing a field or carrying a
// value that is neither a number nor a numeric string are dropped; a claim
// that is not an array decodes to an empty list.
type SiteList []Site

func (s *SiteList) UnmarshalJSON(data []byte) error {
	*s = nil
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	out := make(SiteList, 0, len(raw))
	for _, item := range raw {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			continue
		}
		lat, ok1 := number(fields["latitude"])
		lon, ok2 := number(fields["longitude"])
		radius, ok3 := number(fields["geofenceRadiusMetres"])
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		out = append(out, Site{Latitude: lat, Longitude: lon, GeofenceRadiusMetres: radius})
	}
	if len(out) > 0 {
		*s = out
	}
	return nil
}

// StringList decodes an array whose elements may be strings or numbers.
// Elements are trimmed; nulls and blanks are dropped.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	*l = nil
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	out := make(StringList, 0, len(raw))
	for _, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || string(item) == "null" {
			continue
		}
		var v string
		if item[0] == '"' {
			if err := json.Unmarshal(item, &v); err != nil {
				continue
			}
		} else {
			v = string(item)
		}
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) > 0 {
		*l = out
	}
	return nil
}

func number(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
