package constants

import "time"

var QuizConfig = struct {
	AnswerTimeout time.Duration
	MaxConcurrent int
	QueueSize     int
}{
	AnswerTimeout: 20 * time.Second, // 답변 대기 시간
	MaxConcurrent: 32,
	QueueSize:     128,
}

var CacheTTL = struct {
	InteractionClaim time.Duration
}{
	InteractionClaim: 15 * time.Minute, // interaction token lifetime
}

var WebSocketConfig = struct {
	MaxReconnectAttempts int
	ReconnectDelay       time.Duration
	HandshakeTimeout     time.Duration
}{
	MaxReconnectAttempts: 5,
	ReconnectDelay:       5 * time.Second,
	HandshakeTimeout:     10 * time.Second,
}

var RedisConfig = struct {
	ReadyTimeout time.Duration
}{
	ReadyTimeout: 5 * time.Second,
}

var APIConfig = struct {
	GatewayTimeout time.Duration
}{
	GatewayTimeout: 10 * time.Second,
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}{
	FailureThreshold: 3,                // 3회 연속 실패 시 Circuit OPEN
	ResetTimeout:     30 * time.Second, // 기본 재시도 대기 시간 (30초)
}

var StringLimits = struct {
	MessageContent int
	LogPreview     int
}{
	MessageContent: 1990, // platform limit is 2000
	LogPreview:     200,
}
