// flex_time_test.go
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
	"testing"
	"time"
)

func TestFlexTimeUnmarshal(t *testing.T) {
	cases := map[string]time.Time{
		`"2024-07-31"`:                time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC),
		`"2024-07-31T10:30:00Z"`:      time.Date(2024, 7, 31, 10, 30, 0, 0, time.UTC),
		`"2024-07-31T10:30:00+05:30"`: time.Date(2024, 7, 31, 5, 0, 0, 0, time.UTC),
		`"2024-07-31T10:30"`:          time.Date(2024, 7, 31, 10, 30, 0, 0, time.UTC),
	}

	for input, want := range cases {
		var f FlexTime
		if err := json.Unmarshal([]byte(input), &f); err != nil {
			t.Fatalf("unmarshal %s: %v", input, err)
		}
		if !f.Time().Equal(want) {
			t.Errorf("unmarshal %s: got %v, want %v", input, f.Time(), want)
		}
	}
}

func TestFlexTimeRejectsGarbage(t *testing.T) {
	var f FlexTime
	if err := json.Unmarshal([]byte(`"next tuesday"`), &f); err == nil {
		t.Error("expected error for unparseable time")
	}
	if err := json.Unmarshal([]byte(`42`), &f); err == nil {
		t.Error("expected error for numeric time")
	}
}

func TestFlexTimeEmpty(t *testing.T) {
	var body struct {
		At FlexTime `json:"at"`
	}
	if err := json.Unmarshal([]byte(`{"at":null}`), &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !body.At.IsZero() {
		t.Error("expected zero time for null")
	}
}

func TestCustomErrorHelpers(t *testing.T) {
	err := error(NotFound("Task not found"))
	ce, ok := AsCustomError(err)
	if !ok {
		t.Fatal("expected CustomError")
	}
	if ce.Code != 404 || ce.Type != TypeNotFound {
		t.Errorf("unexpected error %+v", ce)
	}
	if Conflict("Email already exists").Code != 400 {
		t.Error("conflict must surface as 400")
	}
	if !IsType(Forbidden("x"), TypeForbidden) {
		t.Error("IsType should match forbidden")
	}
}
