package steps

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

func (t *TestContext) registerEmailSteps(ctx *godog.ScenarioContext) {
	ctx.When(`^the email worker processes the queue$`, t.theEmailWorkerProcessesTheQueue)
	ctx.Then(`^(\d+) emails? should have been sent$`, t.emailsShouldHaveBeenSent)
	ctx.Then(`^an email with subject "([^"]*)" should have been sent to "([^"]*)"$`, t.anEmailWithSubjectShouldHaveBeenSentTo)
	ctx.Given(`^the email provider rejects messages with status (\d+)$`, t.theEmailProviderRejectsMessages)
}

func (t *TestContext) theEmailWorkerProcessesTheQueue() error {
	t.injector.EmailWorker.ProcessNow(context.Background())
	return nil
}

func (t *TestContext) emailsShouldHaveBeenSent(count int) error {
	sent := t.resend.Requests(http.MethodPost, "/emails")
	if len(sent) != count {
		return fmt.Errorf("expected %d emails, got %d", count, len(sent))
	}
	return nil
}

func (t *TestContext) anEmailWithSubjectShouldHaveBeenSentTo(subject, address string) error {
	var subjects []any
	for _, request := range t.resend.Requests(http.MethodPost, "/emails") {
		subjects = append(subjects, request.Body["subject"])
		if request.Body["subject"] != subject {
			continue
		}
		recipients, _ := request.Body["to"].([]any)
		for _, recipient := range recipients {
			if recipient == address {
				return nil
			}
		}
	}
	return fmt.Errorf("no email %q to %s, sent subjects: %v", subject, address, subjects)
}

func (t *TestContext) theEmailProviderRejectsMessages(status int) error {
	t.resend.SetResponse(-1, http.MethodPost, "/emails", status, map[string]any{
		"statusCode": status,
		"message":    "Invalid `to` field",
		"name":       "validation_error",
	})
	return nil
}
