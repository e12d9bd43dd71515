package enums

// OutboxEventType names the domain events drained by the outbox publisher.
type OutboxEventType string

const (
	OutboxEventMintSucceeded       OutboxEventType = "mint.succeeded"
	OutboxEventMintFailed          OutboxEventType = "mint.failed"
	OutboxEventCollectionCreated   OutboxEventType = "collection.created"
	OutboxEventNFTCreated          OutboxEventType = "nft.created"
	OutboxEventSecurityLargeSupply OutboxEventType = "security.large_supply"
)

// String implements fmt.Stringer.
func (t OutboxEventType) String() string {
	return string(t)
}

// Topic routes the event type to its Pub/Sub topic kind.
func (t OutboxEventType) Topic() OutboxTopic {
	if t == OutboxEventSecurityLargeSupply {
		return OutboxTopicSecurity
	}
	return OutboxTopicMint
}

// OutboxTopic is the logical topic bucket an event publishes to.
type OutboxTopic string

const (
	OutboxTopicMint     OutboxTopic = "mint"
	OutboxTopicSecurity OutboxTopic = "security"
)
