package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/tanpawarit/Chative-Music-Store-Support/agent/nodes/orchestrator"
)

func (s *Service) compileRunGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode(nodex.NodeValidateRequest,
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, s.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeValidateRequest, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeVerifyCustomer,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.VerifyCustomer(ctx, in, nodex.VerifyDeps{
				Extractor: s.registry.IdentifierExtractor(),
				Verifier:  s.registry.Verifier(),
				Customers: s.customers,
			})
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeVerifyCustomer, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeHumanInput,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.HumanInput(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeHumanInput, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeLoadMemory,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadMemory(ctx, in, s.profiles)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeLoadMemory, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeSupervise,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Supervise(ctx, in, s.registry.Supervisor())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeSupervise, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeSaveMemory,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.SaveMemory(ctx, in, nodex.SaveMemoryDeps{
				Extractor: s.registry.ProfileExtractor(),
				Profiles:  s.profiles,
			})
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeSaveMemory, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeCheckpointState,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.CheckpointState(ctx, in, s.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeCheckpointState, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeFinalizeReply,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeFinalizeReply, err)
	}

	edges := [][2]string{
		{compose.START, nodex.NodeValidateRequest},
		{nodex.NodeValidateRequest, nodex.NodeVerifyCustomer},
		{nodex.NodeLoadMemory, nodex.NodeSupervise},
		{nodex.NodeSupervise, nodex.NodeSaveMemory},
		{nodex.NodeSaveMemory, nodex.NodeCheckpointState},
		{nodex.NodeHumanInput, nodex.NodeCheckpointState},
		{nodex.NodeCheckpointState, nodex.NodeFinalizeReply},
		{nodex.NodeFinalizeReply, compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	afterVerify := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			return nodex.RouteAfterVerify(in)
		},
		map[string]bool{
			nodex.NodeLoadMemory: true,
			nodex.NodeHumanInput: true,
		},
	)
	if err := graph.AddBranch(nodex.NodeVerifyCustomer, afterVerify); err != nil {
		return nil, fmt.Errorf("add branch %s: %w", nodex.NodeVerifyCustomer, err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.music_store_support"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
