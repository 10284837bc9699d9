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

package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wso2/course-app-client/clients/requests"
	"github.com/wso2/course-app-client/utils"
)

// avatarPart reads the avatar image at path. The uploaded name and content
// type derive from the file extension: photo.png becomes avatar.png, image/png.
func avatarPart(path string) (requests.FilePart, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return requests.FilePart{}, fmt.Errorf("%w: avatar file %q has no extension", utils.ErrInvalidInput, path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return requests.FilePart{}, fmt.Errorf("failed to read avatar: %w", err)
	}
	return requests.FilePart{
		FieldName:   "avatar",
		FileName:    "avatar." + ext,
		ContentType: "image/" + ext,
		Content:     content,
	}, nil
}
