package workflow

import (
	"sort"
	"sync"
	"time"
)

// AgentState tracks bookkeeping for one registered agent role.
type AgentState struct {
	// Role is the agent's role name, e.g. "planner" or "reviewer".
	Role string `json:"role"`

	// RegisteredAt is when the agent was registered with the workflow.
	RegisteredAt time.Time `json:"registered_at"`

	// Messages counts model exchanges attributed to this agent.
	Messages int `json:"messages"`

	// Errors counts failures attributed to this agent.
	Errors int `json:"errors"`
}

// AgentRegistry tracks the agents participating in a workflow and
// their message and error counters. Safe for concurrent use.
type AgentRegistry struct {
	mu     sync.RWMutex
	agents map[string]*AgentState
}

// NewAgentRegistry creates an empty registry.
func NewAgentRegistry() *AgentRegistry {
	return &AgentRegistry{agents: make(map[string]*AgentState)}
}

// Register adds an agent role to the registry. Registering the same
// role again is a no-op.
func (r *AgentRegistry) Register(role string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.agents[role]; ok {
		return
	}
	r.agents[role] = &AgentState{
		Role:         role,
		RegisteredAt: time.Now(),
	}
}

// RecordMessage increments the message counter for a role. Unknown
// roles are registered implicitly.
func (r *AgentRegistry) RecordMessage(role string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.get(role).Messages++
}

// RecordError increments the error counter for a role. Unknown roles
// are registered implicitly.
func (r *AgentRegistry) RecordError(role string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.get(role).Errors++
}

// Agent returns a copy of the state for the given role.
func (r *AgentRegistry) Agent(role string) (AgentState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.agents[role]
	if !ok {
		return AgentState{}, false
	}
	return *a, true
}

// Agents returns a copy of every agent's state, sorted by role.
func (r *AgentRegistry) Agents() []AgentState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]AgentState, 0, len(r.agents))
	for _, a := range r.agents {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Role < out[j].Role })
	return out
}

// get returns the state for a role, registering it if needed. Callers
// must hold the write lock.
func (r *AgentRegistry) get(role string) *AgentState {
	a, ok := r.agents[role]
	if !ok {
		a = &AgentState{Role: role, RegisteredAt: time.Now()}
		r.agents[role] = a
	}
	return a
}
