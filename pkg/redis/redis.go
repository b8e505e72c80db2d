package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Client wraps the Redis connection with health checking and automatic
// reconnection. The rate limiter is the only consumer; a Redis outage
// degrades to unlimited requests, never to a blocked console.
type Client struct {
	client        *redis.Client
	addr          string
	password      string
	mu            sync.RWMutex
	isConnected   bool
	reconnectChan chan struct{}
	ctx           context.Context
	cancel        context.CancelFunc
}

type HealthStatus struct {
	IsConnected  bool          `json:"isConnected"`
	LastPing     time.Time     `json:"lastPing"`
	ResponseTime time.Duration `json:"responseTime"`
	Error        string        `json:"error,omitempty"`
}

func NewClient(addr, password string) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		addr:          addr,
		password:      password,
		reconnectChan: make(chan struct{}, 1),
		ctx:           ctx,
		cancel:        cancel,
	}

	c.connect()
	go c.healthCheckLoop()
	go c.reconnectLoop()

	return c
}

func (c *Client) connect() {
	opt := &redis.Options{
		Addr:         c.addr,
		Password:     c.password,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	c.mu.Lock()
	c.client = redis.NewClient(opt)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := c.client.Ping(ctx).Err()
	c.mu.Lock()
	c.isConnected = err == nil
	c.mu.Unlock()

	if err != nil {
		logrus.WithError(err).Warn("redis connection test failed")
	} else {
		logrus.Info("redis connected")
	}
}

// GetClient returns the underlying Redis client.
func (c *Client) GetClient() *redis.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isConnected
}

func (c *Client) HealthCheck() HealthStatus {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()

	status := HealthStatus{IsConnected: c.IsConnected()}
	if client == nil {
		status.Error = "redis client not initialized"
		return status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	start := time.Now()
	err := client.Ping(ctx).Err()
	status.ResponseTime = time.Since(start)
	status.LastPing = time.Now()

	c.mu.Lock()
	c.isConnected = err == nil
	c.mu.Unlock()

	if err != nil {
		status.IsConnected = false
		status.Error = err.Error()
		c.triggerReconnect()
	} else {
		status.IsConnected = true
	}
	return status
}

func (c *Client) triggerReconnect() {
	select {
	case c.reconnectChan <- struct{}{}:
	default:
	}
}

func (c *Client) healthCheckLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			status := c.HealthCheck()
			if !status.IsConnected {
				logrus.Warnf("redis health check failed: %s", status.Error)
			}
		}
	}
}

func (c *Client) reconnectLoop() {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.reconnectChan:
			if c.IsConnected() {
				continue
			}

			logrus.Info("attempting redis reconnect")

			c.mu.Lock()
			if c.client != nil {
				c.client.Close()
			}
			c.mu.Unlock()

			c.connect()

			if !c.IsConnected() {
				logrus.Warnf("redis reconnect failed, retrying in %v", backoff)
				time.Sleep(backoff)
				backoff *= 2
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
				c.triggerReconnect()
			} else {
				backoff = time.Second
			}
		}
	}
}

func (c *Client) Close() error {
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
