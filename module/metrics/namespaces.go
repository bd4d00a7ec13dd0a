package metrics

// Prometheus metric namespaces
const (
	namespaceWitness = "witness"
)

// Witness subsystems
const (
	subsystemDeferred = "deferred"
	subsystemLookup   = "lookup"
	subsystemImport   = "import"
	subsystemProofs   = "proofs"
)
