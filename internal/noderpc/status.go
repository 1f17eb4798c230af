package noderpc

import "context"

// Backend descriptor reported with every NodeStatus.
const (
	BackendVersion  = "Bitcoin Core"
	BackendNodeType = "bitcoind"
)

// BlockchainInfo is the subset of the getblockchaininfo result nodekeeper reads.
type BlockchainInfo struct {
	Chain                string  `json:"chain"`
	Blocks               uint64  `json:"blocks"`
	Headers              uint64  `json:"headers"`
	BestBlockHash        string  `json:"bestblockhash"`
	Difficulty           float64 `json:"difficulty"`
	VerificationProgress float64 `json:"verificationprogress"`
	InitialBlockDownload bool    `json:"initialblockdownload"`
	Pruned               bool    `json:"pruned"`
	SizeOnDisk           uint64  `json:"size_on_disk"`
}

// NodeStatus is the flat read-only view of a node returned to API clients.
type NodeStatus struct {
	Network              string      `json:"network"`
	BlockHeight          uint64      `json:"block_height"`
	BestBlockHash        string      `json:"best_block_hash"`
	Sync                 SyncInfo    `json:"sync"`
	Pruned               bool        `json:"pruned"`
	VerificationProgress float64     `json:"verification_progress"`
	Backend              BackendInfo `json:"backend"`
}

type SyncInfo struct {
	IsSynced bool    `json:"is_synced"`
	Progress float64 `json:"progress"`
}

type BackendInfo struct {
	Version  string `json:"version"`
	NodeType string `json:"node_type"`
}

// GetBlockchainInfo calls getblockchaininfo.
func (c *Client) GetBlockchainInfo(ctx context.Context) (*BlockchainInfo, error) {
	var info BlockchainInfo
	if err := c.Call(ctx, "getblockchaininfo", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetNodeStatus fetches chain state and projects it onto NodeStatus.
func (c *Client) GetNodeStatus(ctx context.Context) (*NodeStatus, error) {
	info, err := c.GetBlockchainInfo(ctx)
	if err != nil {
		return nil, err
	}
	st := StatusFromBlockchainInfo(*info)
	return &st, nil
}

// StatusFromBlockchainInfo maps raw chain state onto NodeStatus. Values are
// copied as reported; nothing is range-checked.
func StatusFromBlockchainInfo(info BlockchainInfo) NodeStatus {
	return NodeStatus{
		Network:       info.Chain,
		BlockHeight:   info.Blocks,
		BestBlockHash: info.BestBlockHash,
		Sync: SyncInfo{
			IsSynced: !info.InitialBlockDownload,
			Progress: info.VerificationProgress,
		},
		Pruned:               info.Pruned,
		VerificationProgress: info.VerificationProgress,
		Backend:              BackendInfo{Version: BackendVersion, NodeType: BackendNodeType},
	}
}
