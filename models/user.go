// Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package models

import (
	"encoding/json"
	"fmt"
)

// UserID accepts both numeric and string ids from the backend.
type UserID string

func (id *UserID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid user id %s: %w", b, err)
	}
	*id = UserID(n.String())
	return nil
}

// User is the profile returned by the users endpoints and cached after login.
type User struct {
	ID          UserID `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Gender      string `json:"gender,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

// Merge copies every non-empty field of update onto u.
func (u *User) Merge(update *User) {
	if update == nil {
		return
	}
	if update.ID != "" {
		u.ID = update.ID
	}
	if update.Email != "" {
		u.Email = update.Email
	}
	if update.Name != "" {
		u.Name = update.Name
	}
	if update.FirstName != "" {
		u.FirstName = update.FirstName
	}
	if update.LastName != "" {
		u.LastName = update.LastName
	}
	if update.Gender != "" {
		u.Gender = update.Gender
	}
	if update.PhoneNumber != "" {
		u.PhoneNumber = update.PhoneNumber
	}
	if update.Avatar != "" {
		u.Avatar = update.Avatar
	}
}
