package mailer_test

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/wishlist-management/internal/mailer"
)

func TestMailer(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Mailer Suite")
}

type receivedMail struct {
	method string
	path   string
	auth   string
	body   map[string]string
}

var _ = Describe("Client", func() {
	testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	It("delivers the invitation mail through the API", func() {
		// Given
		received := make(chan receivedMail, 1)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
			received <- receivedMail{
				method: r.Method,
				path:   r.URL.Path,
				auth:   r.Header.Get("Authorization"),
				body:   body,
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := mailer.NewClient(mailer.Config{
			APIURL:        srv.URL,
			APIKey:        "secret-key",
			FromAddress:   "invites@wishlist.example.com",
			InviteBaseURL: "https://wishlist.example.com",
			MaxWorkers:    2,
		}, testLogger)
		defer client.Shutdown()

		// When
		err := client.SendInvitation("friend@example.com", "tok-abc123", 10)

		// Then
		Expect(err).ToNot(HaveOccurred())

		var got receivedMail
		Eventually(received).Should(Receive(&got))
		Expect(got.method).To(Equal("POST"))
		Expect(got.path).To(Equal("/messages"))
		Expect(got.auth).To(Equal("Bearer secret-key"))
		Expect(got.body["from"]).To(Equal("invites@wishlist.example.com"))
		Expect(got.body["to"]).To(Equal("friend@example.com"))
		Expect(got.body["text"]).To(ContainSubstring("https://wishlist.example.com/invitations/accept?token=tok-abc123"))
	})

	It("rejects new mail when the queue is full", func() {
		// Given a mail API that never answers until released
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := mailer.NewClient(mailer.Config{
			APIURL:       srv.URL,
			MaxWorkers:   1,
			JobQueueSize: 1,
		}, testLogger)
		defer client.Shutdown()
		defer close(release)

		// When
		var rejected error
		for i := 0; i < 10; i++ {
			if err := client.SendInvitation(fmt.Sprintf("u%d@example.com", i), "tok", 1); err != nil {
				rejected = err
				break
			}
		}

		// Then
		Expect(rejected).To(HaveOccurred())
		Expect(rejected.Error()).To(ContainSubstring("mail queue full"))
	})
})
