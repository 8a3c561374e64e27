/*
Package ports defines the driven ports (interfaces) for the call agent.

These interfaces decouple the session lifecycle from concrete storage, allowing
the agent to run against an in-process map or a store shared by several replicas.

# Key Interfaces

  - CallStore: Responsible for persisting and loading the ConversationState of a call.
  - DistributedLocker: Provides distributed locking for handling concurrent access to the same call.
*/
package ports
