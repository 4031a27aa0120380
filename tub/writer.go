// Copyright 2026 gopilot Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tub

import (
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/juju/errors"
)

// Writer appends records to a tub directory, creating it if needed.
type Writer struct {
	dir  string
	next int
}

// NewWriter creates a tub directory with the given meta.
func NewWriter(dir string, meta Meta) (*Writer, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, errors.Trace(err)
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err = os.WriteFile(filepath.Join(dir, metaFileName), data, 0644); err != nil {
		return nil, errors.Trace(err)
	}
	return &Writer{dir: dir}, nil
}

// WriteRecord writes the next record to disk and returns its index.
func (w *Writer) WriteRecord(fields map[string]any) (int, error) {
	index := w.next
	data, err := json.Marshal(fields)
	if err != nil {
		return 0, errors.Trace(err)
	}
	name := fmt.Sprintf(recordPattern, index)
	if err = os.WriteFile(filepath.Join(w.dir, name), data, 0644); err != nil {
		return 0, errors.Trace(err)
	}
	w.next++
	return index, nil
}

// WriteImage encodes a camera frame as JPEG next to the records and returns
// the file name to store in the image field of a record.
func (w *Writer) WriteImage(index int, img image.Image) (string, error) {
	name := fmt.Sprintf("%d_cam_image_array_.jpg", index)
	f, err := os.Create(filepath.Join(w.dir, name))
	if err != nil {
		return "", errors.Trace(err)
	}
	defer f.Close()
	if err = jpeg.Encode(f, img, &jpeg.Options{Quality: 95}); err != nil {
		return "", errors.Trace(err)
	}
	return name, nil
}
