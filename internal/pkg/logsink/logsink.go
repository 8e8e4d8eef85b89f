// Copyright 2025 Hangar Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logsink

import "time"

// Entry 一条活动日志记录
type Entry struct {
	BatchID     string `json:"batch_id"`
	Slug        string `json:"slug,omitempty"`
	Name        string `json:"name,omitempty"`
	FromVersion string `json:"from_version,omitempty"`
	ToVersion   string `json:"to_version,omitempty"`
	Status      string `json:"status"`
	Message     string `json:"message"`
	IsDryRun    bool   `json:"is_dry_run"`
	Time        int64  `json:"time"`
}

// ILogSink 活动日志出口。Append 为 fire-and-forget：
// 永不阻塞调用方，失败也不向调用方传播。
type ILogSink interface {
	Append(action string, entry Entry)
}

func stamp(entry Entry) Entry {
	if entry.Time == 0 {
		entry.Time = time.Now().Unix()
	}
	return entry
}

// MultiSink fans an entry out to every configured sink.
type MultiSink struct {
	sinks []ILogSink
}

func NewMultiSink(sinks ...ILogSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (ms *MultiSink) Append(action string, entry Entry) {
	for _, s := range ms.sinks {
		s.Append(action, entry)
	}
}
