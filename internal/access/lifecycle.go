// lifecycle.go
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

package access

import (
	"fmt"

	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/types"
)

// taskOrder is the position of each status in the filing lifecycle
var taskOrder = func() map[models.TaskStatus]int {
	m := make(map[models.TaskStatus]int, len(models.TaskStatuses))
	for i, s := range models.TaskStatuses {
		m[s] = i
	}
	return m
}()

// ParseTaskStatus validates a status string
func ParseTaskStatus(s string) (models.TaskStatus, error) {
	status := models.TaskStatus(s)
	if _, ok := taskOrder[status]; !ok {
		return "", types.Validation(fmt.Sprintf("Invalid status %q", s))
	}
	return status, nil
}

// CheckTaskTransition decides whether a task may move from one status to another.
// In permissive mode any known status is reachable. In strict mode only the same
// status or the next one in the lifecycle is allowed.
func CheckTaskTransition(from, to models.TaskStatus, strict bool) error {
	toPos, ok := taskOrder[to]
	if !ok {
		return types.Validation(fmt.Sprintf("Invalid status %q", to))
	}
	if !strict {
		return nil
	}
	fromPos, ok := taskOrder[from]
	if !ok {
		return types.Validation(fmt.Sprintf("Invalid current status %q", from))
	}
	if toPos == fromPos || toPos == fromPos+1 {
		return nil
	}
	return types.Validation(fmt.Sprintf("Cannot move task from %s to %s", from, to))
}
