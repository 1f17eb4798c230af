package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/nodekeeper/internal/common"
	"github.com/dmitrijs2005/nodekeeper/internal/logging"
	"github.com/dmitrijs2005/nodekeeper/internal/noderpc"
	"github.com/dmitrijs2005/nodekeeper/internal/server/models"
)

// Probe messages.
const (
	ProbeSucceeded = "Connection successful"
	ProbeFailed    = "Connection failed"
)

// ActiveProfiles resolves the profile live queries are sent to.
type ActiveProfiles interface {
	GetActive(ctx context.Context) (*models.NodeProfile, error)
}

// ClientFactory builds a node client for one set of credentials.
type ClientFactory func(noderpc.Credentials) *noderpc.Client

// NodeService queries remote nodes. It keeps no connection state: every call
// builds a client from the credentials it needs and drops it afterwards.
type NodeService struct {
	profiles  ActiveProfiles
	newClient ClientFactory
	log       logging.Logger
}

// NewNodeService returns a NodeService whose clients time out after timeout.
func NewNodeService(profiles ActiveProfiles, timeout time.Duration, log logging.Logger) *NodeService {
	return NewNodeServiceWithFactory(profiles, func(c noderpc.Credentials) *noderpc.Client {
		return noderpc.New(c, noderpc.WithTimeout(timeout))
	}, log)
}

func NewNodeServiceWithFactory(profiles ActiveProfiles, f ClientFactory, log logging.Logger) *NodeService {
	if log == nil {
		log = logging.Nop()
	}
	return &NodeService{profiles: profiles, newClient: f, log: log}
}

func credentialsOf(p *models.NodeProfile) noderpc.Credentials {
	return noderpc.Credentials{URL: p.RPCURL, User: p.RPCUser, Password: p.RPCPassword}
}

// Status reads chain state from the node of the currently active profile.
// With no active profile it fails with NotFound.
func (s *NodeService) Status(ctx context.Context) (*noderpc.NodeStatus, error) {
	p, err := s.profiles.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	return s.newClient(credentialsOf(p)).GetNodeStatus(ctx)
}

// Probe makes one status call with the given credentials and reports only
// whether it succeeded. The cause of a failure is logged, never returned.
func (s *NodeService) Probe(ctx context.Context, req models.ProbeRequest) models.ProbeResult {
	c := s.newClient(noderpc.Credentials{URL: req.RPCURL, User: req.RPCUser, Password: req.RPCPassword})
	if _, err := c.GetBlockchainInfo(ctx); err != nil {
		s.log.Warn(ctx, "connection probe failed",
			"rpc_url", req.RPCURL,
			"kind", common.KindOf(err).String(),
			"error", err,
		)
		return models.ProbeResult{Success: false, Message: ProbeFailed}
	}
	return models.ProbeResult{Success: true, Message: ProbeSucceeded}
}
