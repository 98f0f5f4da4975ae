package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// MailJob is one invitation email waiting for a worker.
type MailJob struct {
	Email  string
	Token  string
	ListID int64
}

type Worker struct {
	ID         int
	WorkerPool chan chan MailJob
	JobChannel chan MailJob
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan MailJob, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan MailJob),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(MailJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {

			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker processing mail", "worker_id", w.ID, "email", job.Email)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

// Client delivers invitation emails through an HTTP mail API. Sends are
// queued and handled by a worker pool so the inviting request never
// waits on the mail provider.
type Client struct {
	apiURL        string
	apiKey        string
	fromAddress   string
	inviteBaseURL string
	sendTimeout   time.Duration
	logger        *slog.Logger

	jobQueue   chan MailJob
	workerPool chan chan MailJob
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

type Config struct {
	APIURL         string
	APIKey         string
	FromAddress    string
	InviteBaseURL  string
	SendTimeout    time.Duration
	MaxWorkers     int
	JobQueueSize   int
	WorkerPoolSize int
}

func NewClient(config Config, logger *slog.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 5
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	workerPoolSize := config.WorkerPoolSize
	if workerPoolSize <= 0 {
		workerPoolSize = maxWorkers
	}

	sendTimeout := config.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}

	client := &Client{
		apiURL:        config.APIURL,
		apiKey:        config.APIKey,
		fromAddress:   config.FromAddress,
		inviteBaseURL: config.InviteBaseURL,
		sendTimeout:   sendTimeout,
		logger:        logger,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan MailJob, jobQueueSize),
		workerPool: make(chan chan MailJob, workerPoolSize),
		ctx:        ctx,
		cancel:     cancel,
	}

	client.startWorkerPool()

	return client
}

func (c *Client) startWorkerPool() {
	c.once.Do(func() {

		for i := 0; i < c.maxWorkers; i++ {
			worker := NewWorker(i, c.workerPool, c.logger)
			worker.Start(c.ctx, &c.wg, c.processMailJob)
		}

		go c.dispatch()

		c.logger.Info("mailer worker pool started",
			"max_workers", c.maxWorkers,
			"queue_size", cap(c.jobQueue))
	})
}

func (c *Client) dispatch() {
	defer c.wg.Done()
	c.wg.Add(1)

	for {
		select {
		case job := <-c.jobQueue:

			select {
			case jobChannel := <-c.workerPool:

				select {
				case jobChannel <- job:

				case <-c.ctx.Done():
					c.logger.Info("mail dispatcher shutting down")
					return
				}
			case <-c.ctx.Done():
				c.logger.Info("mail dispatcher shutting down")
				return
			}
		case <-c.ctx.Done():
			c.logger.Info("mail dispatcher shutting down")
			return
		}
	}
}

func (c *Client) Shutdown() {
	c.logger.Info("shutting down mailer")
	c.cancel()
	c.wg.Wait()
	c.logger.Info("mailer shutdown complete")
}

// SendInvitation queues an invitation email. Delivery happens in the
// background; a full queue is reported to the caller.
func (c *Client) SendInvitation(email, token string, listID int64) error {
	job := MailJob{
		Email:  email,
		Token:  token,
		ListID: listID,
	}

	select {
	case c.jobQueue <- job:
		c.logger.Info("invitation mail queued",
			"email", email,
			"list_id", listID,
			"queue_length", len(c.jobQueue))
	default:
		c.logger.Warn("mail queue full, rejecting invitation mail",
			"email", email,
			"queue_capacity", cap(c.jobQueue))
		return fmt.Errorf("mail queue full, please try again later")
	}

	return nil
}

func (c *Client) processMailJob(job MailJob) {
	acceptURL := fmt.Sprintf("%s/invitations/accept?token=%s", c.inviteBaseURL, job.Token)

	payload := map[string]interface{}{
		"from":    c.fromAddress,
		"to":      job.Email,
		"subject": "You have been invited to co-manage a wishlist",
		"text": fmt.Sprintf(
			"You have been invited to help manage a wishlist. Accept the invitation here: %s",
			acceptURL),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("failed to marshal mail payload", "error", err, "email", job.Email)
		return
	}

	ctx, cancel := context.WithTimeout(c.ctx, c.sendTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL+"/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		c.logger.Error("failed to create mail request", "error", err, "email", job.Email)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpClient := &http.Client{Timeout: c.sendTimeout}
	resp, err := httpClient.Do(req)
	if err != nil {
		c.logger.Error("invitation mail delivery failed", "error", err, "email", job.Email, "list_id", job.ListID)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		c.logger.Warn("mail API returned an error",
			"status_code", resp.StatusCode,
			"email", job.Email,
			"list_id", job.ListID)
		return
	}

	c.logger.Info("invitation mail delivered", "email", job.Email, "list_id", job.ListID)
}
