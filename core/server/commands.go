/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package server

import (
	"fmt"

	"github.com/navespenhw/tanstack-table-demo/core/views"
)

// CommandRequest is the JSON body of POST /api/sessions/:id/commands.
// Type is the command name; the other fields are read as the command needs
// them.
type CommandRequest struct {
	Type     string `json:"type"`
	Column   string `json:"column"`
	Value    any    `json:"value"`
	Additive bool   `json:"additive"`
	Index    int    `json:"index"`
	Size     int    `json:"size"`
	Row      string `json:"row"`
}

// Command converts the request into a controller command.
func (r CommandRequest) Command() (views.Command, error) {
	switch r.Type {
	case views.SetFilter{}.Name():
		return views.SetFilter{ColumnID: r.Column, Value: r.Value}, nil
	case views.ToggleSort{}.Name():
		return views.ToggleSort{ColumnID: r.Column, Additive: r.Additive}, nil
	case views.ToggleGroup{}.Name():
		return views.ToggleGroup{ColumnID: r.Column}, nil
	case views.SetPage{}.Name():
		return views.SetPage{Index: r.Index}, nil
	case views.SetPageSize{}.Name():
		return views.SetPageSize{Size: r.Size}, nil
	case views.ToggleExpanded{}.Name():
		return views.ToggleExpanded{RowID: r.Row}, nil
	case views.ResetSorting{}.Name():
		return views.ResetSorting{}, nil
	case views.ResetFilters{}.Name():
		return views.ResetFilters{}, nil
	case views.ResetGrouping{}.Name():
		return views.ResetGrouping{}, nil
	case "":
		return nil, fmt.Errorf("command type is required")
	}
	return nil, fmt.Errorf("unknown command type %q", r.Type)
}
