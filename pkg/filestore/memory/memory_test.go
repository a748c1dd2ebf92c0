// Copyright Docuchat Authors
// SPDX-License-Identifier: Apache-2.0

package memory_test

import (
	"testing"

	"github.com/docuchat/docuchat/pkg/filestore"
	"github.com/docuchat/docuchat/pkg/filestore/filestoretest"
	"github.com/docuchat/docuchat/pkg/filestore/memory"
)

func TestMemoryConformance(t *testing.T) {
	filestoretest.RunConformanceTests(t, func(t *testing.T) filestore.FileStore {
		return memory.New()
	})
}
