package config

import (
	"fmt"

	"github.com/fiddotdev/hub-go/storage"
	"github.com/fiddotdev/hub-go/storage/localfs"
)

// Open builds the message archive described by a. It returns nil when Dir is
// empty. With mirrors, WritePolicyAll replicates every write and
// WritePolicyFirst writes Dir only; reads fall back across all directories.
func (a ArchiveConfig) Open() (*storage.MessageStore, error) {
	if a.Dir == "" {
		return nil, nil
	}
	dirs := append([]string{a.Dir}, a.Mirrors...)
	backends := make([]storage.NamedCAS, 0, len(dirs))
	for _, d := range dirs {
		cas, err := localfs.New(d)
		if err != nil {
			return nil, fmt.Errorf("open archive %s: %w", d, err)
		}
		backends = append(backends, storage.NamedCAS{Name: d, CAS: cas})
	}
	if len(backends) == 1 {
		return storage.NewMessageStore(backends[0].CAS), nil
	}
	if a.WritePolicy == WritePolicyAll {
		return storage.NewMessageStore(storage.ReplicatingCAS{Backends: backends}), nil
	}
	adapters := make([]storage.CAS, 0, len(backends))
	for _, b := range backends {
		adapters = append(adapters, b.CAS)
	}
	return storage.NewMessageStore(storage.MultiCAS{Adapters: adapters}), nil
}
