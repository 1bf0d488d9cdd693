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

package views

import (
	"errors"
	"fmt"
)

// ErrInvalidState is the target for errors.Is on every rejected intent.
var ErrInvalidState = errors.New("invalid view state")

// InvalidStateError reports an intent the controller rejected. The view
// state is left exactly as it was before the intent.
type InvalidStateError struct {
	Command  string
	ColumnID string
	Reason   string
}

func (e *InvalidStateError) Error() string {
	if e.ColumnID == "" {
		return fmt.Sprintf("%s: %s", e.Command, e.Reason)
	}
	return fmt.Sprintf("%s: column %q: %s", e.Command, e.ColumnID, e.Reason)
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}
