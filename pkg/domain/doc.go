/*
Package domain contains the core domain models for the call agent.

It defines the conversation record kept for every in-progress call and the
events emitted as a call moves through the booking script. The package is kept
pure and free of I/O so that both the dialogue engine and the storage adapters
can depend on it.

# Key Entities

  - Step: The stage of the fixed booking script (location, dates, room, confirm, booked).
  - ConversationState: The per-call record (current step plus the answers collected so far).
  - LifecycleHooks: Optional callbacks fired by the agent for auditing and metrics.
*/
package domain
