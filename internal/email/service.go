package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"propcoin/internal/logger"
	"propcoin/internal/metrics"
	"propcoin/internal/user"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "receipts"
	failedQueueKey = "receipts:failed"
)

type ReceiptJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Type    string    `json:"type"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Users is the lookup the receipt service needs to resolve a recipient.
type Users interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

// Service queues receipt emails in redis and drains the queue in a
// background worker. Sending is best-effort with bounded retries.
type Service struct {
	redis    *redis.Client
	users    Users
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(users Users, fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		users:    users,
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

// SendRechargeReceipt queues a receipt for a settled recharge. Errors are
// logged and swallowed: the settlement already happened and must not be
// failed by mail delivery.
func (s *Service) SendRechargeReceipt(ctx context.Context, userID int, coins int64, orderID string) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		logger.Errorf("receipt skipped, user %d lookup failed: %v", userID, err)
		return
	}

	subject := "Recharge successful"
	body := fmt.Sprintf(`Hi %s,

Your coin recharge is complete.

Coins credited: %d
Order reference: %s

Happy house hunting!

- PropCoin Team`, u.Name, coins, orderID)

	if err := s.enqueue(ctx, ReceiptJob{
		To:      u.Email,
		Name:    u.Name,
		Subject: subject,
		Body:    body,
		Type:    "recharge",
		Created: time.Now(),
	}); err != nil {
		logger.Errorf("failed to queue recharge receipt for user %d: %v", userID, err)
	}
}

func (s *Service) enqueue(ctx context.Context, job ReceiptJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		return err
	}

	logger.Infof("receipt queued: %s to %s", job.Subject, job.To)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("receipt service started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("receipt service stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job ReceiptJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("bad receipt data: %v", err)
		return
	}

	job.Tries++
	if err := s.sendNow(job); err != nil {
		logger.Errorf("failed to send receipt to %s: %v", job.To, err)
		metrics.RecordReceipt(job.Type, "error")

		if job.Tries < 3 {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
		} else {
			s.saveFailed(job, err)
		}
		return
	}

	metrics.RecordReceipt(job.Type, "ok")
	logger.Infof("receipt sent to %s", job.To)
}

func (s *Service) sendNow(job ReceiptJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job ReceiptJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, data)
	logger.Errorf("receipt to %s moved to failed queue after %d attempts", job.To, job.Tries)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	metrics.ReceiptQueueLength.Set(float64(length))
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
