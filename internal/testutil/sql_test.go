// sql_test.go
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

package testutil

import "testing"

func TestExcludeComment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SELECT 1; -- trailing", "SELECT 1; "},
		{"-- whole line", ""},
		{"SELECT '--not a comment'", "SELECT '--not a comment'"},
		{"SELECT \"a--b\" -- c", "SELECT \"a--b\" "},
		{"CREATE DATABASE `x--y`", "CREATE DATABASE `x--y`"},
	}
	for _, tt := range tests {
		if got := excludeComment(tt.in); got != tt.want {
			t.Errorf("excludeComment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
