// Package models defines the server-side data models of nodekeeper.
package models

// NodeProfile is a persisted set of remote-node connection credentials.
//
// At most one profile is active at a time; the active one is the target of
// live status queries. RPCPassword is stored as given.
type NodeProfile struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	RPCURL      string `json:"rpc_url" db:"rpc_url"`
	RPCUser     string `json:"rpc_user" db:"rpc_user"`
	RPCPassword string `json:"rpc_password" db:"rpc_password"`
	Network     string `json:"network" db:"network"`
	IsActive    bool   `json:"is_active" db:"is_active"`
	// CreatedAt is the creation time in Unix seconds.
	CreatedAt int64 `json:"created_at" db:"created_at"`
}

// NewProfileRequest is the client-supplied part of a NodeProfile. Identity,
// activation and creation time are assigned by the store.
type NewProfileRequest struct {
	Name        string `json:"name"`
	RPCURL      string `json:"rpc_url"`
	RPCUser     string `json:"rpc_user"`
	RPCPassword string `json:"rpc_password"`
	Network     string `json:"network"`
}

// ProbeRequest carries credentials for an ad hoc connectivity check. They are
// never persisted.
type ProbeRequest struct {
	RPCURL      string `json:"rpc_url"`
	RPCUser     string `json:"rpc_user"`
	RPCPassword string `json:"rpc_password"`
}

// ProbeResult is the outcome of a connectivity check.
type ProbeResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
