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

package datasources

import (
	"fmt"
	"os"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/navespenhw/tanstack-table-demo/core/tables"
)

// JsonLoader loads a JSON array of objects. Numbers become float64, nested
// arrays become []any and null fields are undefined.
type JsonLoader struct{}

// NewJsonLoader creates a new JSON loader.
func NewJsonLoader() *JsonLoader {
	return &JsonLoader{}
}

// SourceType returns "json".
func (l *JsonLoader) SourceType() string {
	return "json"
}

// Load reads and parses the file at path.
func (l *JsonLoader) Load(path string) ([]tables.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}
	return l.Parse(data)
}

// Parse converts JSON bytes into records.
func (l *JsonLoader) Parse(data []byte) ([]tables.Record, error) {
	list := &structpb.ListValue{}
	if err := protojson.Unmarshal(data, list); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	records := make([]tables.Record, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		obj := v.GetStructValue()
		if obj == nil {
			return nil, fmt.Errorf("element %d is not an object", i)
		}
		rec := make(tables.Record, len(obj.GetFields()))
		for name, field := range obj.GetFields() {
			if _, isNull := field.GetKind().(*structpb.Value_NullValue); isNull {
				continue
			}
			rec[name] = field.AsInterface()
		}
		records = append(records, rec)
	}
	return records, nil
}
