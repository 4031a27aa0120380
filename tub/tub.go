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

// Package tub reads and writes tubs, the on-disk directory format holding a
// sequence of recorded driving timesteps plus their camera frames. Each record
// lives in its own record_N.json file, images sit next to them, and meta.json
// declares the recorded fields.
package tub

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/gopilot-io/gopilot/base/log"
)

const (
	metaFileName  = "meta.json"
	recordPrefix  = "record_"
	recordPattern = "record_%d.json"
)

// Meta describes the fields recorded in a tub.
type Meta struct {
	Inputs []string `json:"inputs"`
	Types  []string `json:"types"`
}

// Tub is an ordered, read-only collection of records loaded from one tub
// directory.
type Tub struct {
	Dir     string
	Meta    Meta
	Records []*Record
}

// Open loads all records of a tub directory, ordered by record index. It fails
// fast on a missing directory or a corrupt record.
func Open(dir string) (*Tub, error) {
	if info, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("tub directory %s", dir)
		}
		return nil, errors.Trace(err)
	} else if !info.IsDir() {
		return nil, errors.NotValidf("tub path %s: not a directory", dir)
	}
	t := &Tub{Dir: dir}
	if err := t.readMeta(); err != nil {
		return nil, errors.Trace(err)
	}
	if err := t.readRecords(); err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Debug("opened tub",
		zap.String("dir", dir),
		zap.Int("num_records", len(t.Records)))
	return t, nil
}

func (t *Tub) Len() int {
	return len(t.Records)
}

func (t *Tub) readMeta() error {
	data, err := os.ReadFile(filepath.Join(t.Dir, metaFileName))
	if err != nil {
		return errors.Annotatef(err, "failed to read tub meta in %s", t.Dir)
	}
	if err = json.Unmarshal(data, &t.Meta); err != nil {
		return errors.NotValidf("tub meta in %s: %s", t.Dir, err)
	}
	return nil
}

func (t *Tub) readRecords() error {
	entries, err := os.ReadDir(t.Dir)
	if err != nil {
		return errors.Trace(err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, recordPrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		var index int
		if _, err = fmt.Sscanf(name, recordPattern, &index); err != nil {
			return errors.NotValidf("record file name %s", name)
		}
		data, err := os.ReadFile(filepath.Join(t.Dir, name))
		if err != nil {
			return errors.Trace(err)
		}
		record := &Record{Index: index, dir: t.Dir}
		if err = json.Unmarshal(data, &record.Underlying); err != nil {
			return errors.NotValidf("record %s in %s: %s", name, t.Dir, err)
		}
		t.Records = append(t.Records, record)
	}
	sort.Slice(t.Records, func(i, j int) bool {
		return t.Records[i].Index < t.Records[j].Index
	})
	return nil
}
