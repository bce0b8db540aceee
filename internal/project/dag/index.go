package dag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"

	"lumen/internal/project"
)

type ModuleID uint32

type ModuleIndex struct {
	NameToID map[string]ModuleID
	IDToName []string
}

// собрать уникальные пути, sort.Strings, раздать ID по порядку
func BuildIndex(metas []project.ModuleMeta) ModuleIndex {
	uniq := make(map[string]struct{}, len(metas))
	for _, meta := range metas {
		if meta.Path != "" {
			uniq[meta.Path] = struct{}{}
		}
		for _, dep := range meta.Imports {
			if dep.Path == "" {
				continue
			}
			uniq[dep.Path] = struct{}{}
		}
	}

	paths := make([]string, 0, len(uniq))
	for path := range uniq {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	nameToID := make(map[string]ModuleID, len(paths))
	for i, path := range paths {
		nameToID[path] = toID(i)
	}

	return ModuleIndex{
		NameToID: nameToID,
		IDToName: paths,
	}
}

// Names maps ids back to module paths.
func (idx ModuleIndex) Names(ids []ModuleID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}

func toID(i int) ModuleID {
	id, err := safecast.Conv[ModuleID](i)
	if err != nil {
		panic(fmt.Errorf("internal compiler error: module id overflow: %w", err))
	}
	return id
}
