// flex_time.go
//
// Multi-tenant practice management service for chartered accountant firms
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of practice-portal.
// practice-portal is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// practice-portal is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with practice-portal.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Layouts accepted by FlexTime, tried in order.
var flexTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// FlexTime is a time.Time that can be unmarshaled from either a full RFC3339 timestamp
// or a bare calendar date as sent by HTML date inputs.
type FlexTime time.Time

// ParseFlexTime parses s using the accepted layouts
func ParseFlexTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range flexTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("FlexTime: invalid time %q", s)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexTime) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("FlexTime: unexpected type, expected string")
	}
	if s == "" {
		return nil
	}

	t, err := ParseFlexTime(s)
	if err != nil {
		return err
	}
	*f = FlexTime(t)
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(f))
}

// Time converts FlexTime back to time.Time.
func (f FlexTime) Time() time.Time {
	return time.Time(f)
}

// IsZero reports whether no value was supplied
func (f FlexTime) IsZero() bool {
	return time.Time(f).IsZero()
}
