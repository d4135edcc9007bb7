package provider

import (
	"encoding/json"
	"fmt"
)

// Profile is the user record returned by the provider's users endpoint.
type Profile struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	AvatarURL   string `json:"profile_image_url"`
}

// UnmarshalJSON accepts the id as a JSON number or a numeric string.
// Helix sends strings; persisted records written by this module use numbers.
func (p *Profile) UnmarshalJSON(data []byte) error {
	type plain Profile
	var raw struct {
		plain
		ID json.Number `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Profile(raw.plain)
	p.ID = 0
	if raw.ID != "" {
		id, err := raw.ID.Int64()
		if err != nil {
			return fmt.Errorf("profile id %q: %w", raw.ID, err)
		}
		p.ID = id
	}
	return nil
}

type profileResponse struct {
	Data []Profile `json:"data"`
}
