package kafka_client

import "time"

const (
	KAFKA_TOPIC_RAW_THREADS  = "raw-threads"  // one submission document per message
	KAFKA_TOPIC_RAW_COMMENTS = "raw-comments" // one comment forest per message
)

const (
	MAX_RETRIES = 5
	RETRY_DELAY = 2 * time.Second
)
