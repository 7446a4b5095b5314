package analysis

import (
	"path"

	"github.com/zeu5/finite-mdp/core"
	"github.com/zeu5/finite-mdp/util"
)

// JSONComparator saves the datasets of all experiments in one JSON file
type JSONComparator struct {
	savePath string
}

var _ core.Comparator = &JSONComparator{}

func NewJSONComparator(savePath, name string) *JSONComparator {
	return &JSONComparator{
		savePath: path.Join(savePath, name+".json"),
	}
}

func (c *JSONComparator) Compare(experimentNames []string, datasets []core.DataSet) error {
	out := make(map[string]core.DataSet)
	for i, name := range experimentNames {
		out[name] = datasets[i]
	}
	return util.SaveJson(c.savePath, out)
}
