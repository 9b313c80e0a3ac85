package orchestratornode

// Node names of the top-level graph.
const (
	NodeValidateRequest = "validate_request"
	NodeVerifyCustomer  = "verify_customer"
	NodeHumanInput      = "human_input"
	NodeLoadMemory      = "load_memory"
	NodeSupervise       = "supervise"
	NodeSaveMemory      = "save_memory"
	NodeCheckpointState = "checkpoint_state"
	NodeFinalizeReply   = "finalize_reply"
)
