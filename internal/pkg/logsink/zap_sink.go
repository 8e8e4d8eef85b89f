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

import (
	"github.com/go-hangar/hangar/pkg/log"
)

// ZapSink writes activity entries to the application logger.
type ZapSink struct{}

func NewZapSink() *ZapSink {
	return &ZapSink{}
}

func (zs *ZapSink) Append(action string, entry Entry) {
	entry = stamp(entry)
	log.Infow(action,
		"batchId", entry.BatchID,
		"slug", entry.Slug,
		"name", entry.Name,
		"fromVersion", entry.FromVersion,
		"toVersion", entry.ToVersion,
		"status", entry.Status,
		"message", entry.Message,
		"isDryRun", entry.IsDryRun,
	)
}
