// Copyright 2020 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package control

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/scionproto/staticrouter/router/config"
)

// WriteRoutes writes routes as a table, in table order. Shadowed routes are marked, they
// never match.
func WriteRoutes(w io.Writer, routes []RouteInfo) {
	rows := make([][]string, 0, len(routes))
	for i, r := range routes {
		shadowed := ""
		if r.Shadowed {
			shadowed = "yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(i), config.FormatAddress(r.Address), r.Egress, r.Type, shadowed,
		})
	}
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"#", "ADDRESS", "EGRESS", "TYPE", "SHADOWED"})
	table.AppendBulk(rows)
	table.Render()
}

// RoutesOf describes the routes of cfg without creating any egress.
func RoutesOf(cfg config.RouterConfig) ([]RouteInfo, error) {
	types := make(map[string]string, len(cfg.Egresses))
	for _, e := range cfg.Egresses {
		types[e.Name] = e.Type
	}
	seen := make(map[uint32]struct{}, len(cfg.Routes))
	infos := make([]RouteInfo, 0, len(cfg.Routes))
	for _, rc := range cfg.Routes {
		addr, err := rc.Destination()
		if err != nil {
			return nil, err
		}
		_, shadowed := seen[addr]
		seen[addr] = struct{}{}
		infos = append(infos, RouteInfo{
			Address:  addr,
			Egress:   rc.Egress,
			Type:     types[rc.Egress],
			Shadowed: shadowed,
		})
	}
	return infos, nil
}
