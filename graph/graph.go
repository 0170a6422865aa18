/*package graph builds lazy task graphs. A Graph maps keys to tasks; each
task names the keys it depends on and a pure function which turns the
dependencies' values into its own value. Building a graph never runs
anything: a Scheduler does that, in parallel, when a value is requested.

Graphs are only modified while they are being built. Once a graph has been
handed to another object (e.g. an array.Array) it is treated as read-only,
and combining graphs with Merge always creates a new one.
*/
package graph

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Key identifies one task: the name of the operation which created it and,
// for chunked operations, the index of the block it produces.
type Key struct {
	Name, Block string
}

// BlockKey returns the key of block idx of the operation called name.
func BlockKey(name string, idx []int) Key {
	parts := make([]string, len(idx))
	for i := range idx { parts[i] = strconv.Itoa(idx[i]) }
	return Key{Name: name, Block: strings.Join(parts, ",")}
}

func (k Key) String() string {
	return fmt.Sprintf("%s(%s)", k.Name, k.Block)
}

// Func computes a task's value from the values of its dependencies, given
// in the same order as Task.Deps.
type Func func(args []interface{}) (interface{}, error)

// Task is a single node of a Graph.
type Task struct {
	Deps []Key
	Run  Func
}

// Graph is a set of tasks indexed by key.
type Graph struct {
	tasks map[Key]*Task
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{tasks: map[Key]*Task{}}
}

// Token returns a new unique operation name starting with prefix.
func Token(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Add inserts a task which computes key from deps.
func (g *Graph) Add(key Key, deps []Key, run Func) {
	if _, ok := g.tasks[key]; ok {
		panic(fmt.Sprintf("Task %s added to graph twice.", key))
	}
	g.tasks[key] = &Task{Deps: deps, Run: run}
}

// Literal inserts a task with no dependencies which returns val.
func (g *Graph) Literal(key Key, val interface{}) {
	g.Add(key, nil, func([]interface{}) (interface{}, error) {
		return val, nil
	})
}

// Task returns the task stored at key.
func (g *Graph) Task(key Key) (*Task, bool) {
	t, ok := g.tasks[key]
	return t, ok
}

// Len returns the number of tasks in the graph.
func (g *Graph) Len() int { return len(g.tasks) }

// Keys returns every key in the graph in sorted order.
func (g *Graph) Keys() []Key {
	keys := make([]Key, 0, len(g.tasks))
	for key := range g.tasks { keys = append(keys, key) }
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Name != keys[j].Name { return keys[i].Name < keys[j].Name }
		return keys[i].Block < keys[j].Block
	})
	return keys
}

// Merge returns a new graph containing the tasks of all the given graphs.
// nil graphs are skipped.
func Merge(gs ...*Graph) *Graph {
	out := New()
	for _, g := range gs {
		if g == nil { continue }
		for key, t := range g.tasks {
			out.tasks[key] = t
		}
	}
	return out
}

type taskDescription struct {
	Key  string   `yaml:"key"`
	Deps []string `yaml:"deps,omitempty"`
}

// Describe returns a YAML listing of every task and its dependencies, in
// sorted order.
func (g *Graph) Describe() ([]byte, error) {
	keys := g.Keys()
	desc := make([]taskDescription, len(keys))
	for i, key := range keys {
		desc[i].Key = key.String()
		for _, dep := range g.tasks[key].Deps {
			desc[i].Deps = append(desc[i].Deps, dep.String())
		}
	}
	return yaml.Marshal(desc)
}
