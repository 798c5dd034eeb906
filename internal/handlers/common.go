// common.go
//
// A relational music catalog service for users, playlists, albums and songs
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of musicdb.
// musicdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// musicdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with musicdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/musicdb/internal/services"
	"github.com/localnerve/musicdb/internal/types"
)

// parseID reads a positive integer path parameter
func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, types.Unprocessable(
			fmt.Sprintf("path parameter '%s' must be a positive integer, got '%s'", name, raw),
			"validation.path",
		)
	}
	return uint(id), nil
}

// parseIDs reads several positive integer path parameters in order
func parseIDs(c *fiber.Ctx, names ...string) ([]uint, error) {
	ids := make([]uint, 0, len(names))
	for _, name := range names {
		id, err := parseID(c, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// queryInt reads an optional integer query parameter
func queryInt(c *fiber.Ctx, name string) (*int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, types.Unprocessable(
			fmt.Sprintf("query parameter '%s' must be an integer, got '%s'", name, raw),
			"validation.query",
		)
	}
	return &value, nil
}

// parsePage reads the offset and limit query parameters
func parsePage(c *fiber.Ctx) (services.Page, error) {
	offset, err := queryInt(c, "offset")
	if err != nil {
		return services.Page{}, err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return services.Page{}, err
	}
	return services.NewPage(offset, limit)
}

// parseBody decodes a JSON request body
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return types.Unprocessable(fmt.Sprintf("Invalid input: %v", err), "validation.body")
	}
	return nil
}

// requireString rejects a missing or blank required field
func requireString(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return types.Unprocessable(fmt.Sprintf("field '%s' is required", field), "validation."+field)
	}
	return nil
}
