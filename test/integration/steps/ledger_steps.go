package steps

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultPassword = "SecurePass123!"

func (t *TestContext) registerLedgerSteps(ctx *godog.ScenarioContext) {
	// Setup steps
	ctx.Given(`^the following users are registered:$`, t.theFollowingUsersAreRegistered)
	ctx.Step(`^I am signed in as "([^"]*)"$`, t.iAmSignedInAs)
	ctx.Given(`^"([^"]*)" has created the group "([^"]*)"$`, t.hasCreatedTheGroup)
	ctx.Given(`^"([^"]*)" has created the group "([^"]*)" with "([^"]*)"$`, t.hasCreatedTheGroupWith)
	ctx.Given(`^"([^"]*)" has added "([^"]*)" to the group$`, t.hasAddedToTheGroup)
	ctx.Given(`^"([^"]*)" has added an expense "([^"]*)" of "([^"]*)" paid by "([^"]*)" split equally between "([^"]*)"$`, t.hasAddedAnEqualExpense)
	ctx.Given(`^"([^"]*)" has added an expense "([^"]*)" of "([^"]*)" paid by "([^"]*)" split by percentage:$`, t.hasAddedAPercentageExpense)
	ctx.Given(`^"([^"]*)" has paid "([^"]*)" to "([^"]*)"$`, t.hasPaidTo)
	ctx.Given(`^"([^"]*)" has left the group$`, t.hasLeftTheGroup)

	// Balance assertion steps
	ctx.Then(`^the balances should be:$`, t.theBalancesShouldBe)
	ctx.Then(`^the balance of "([^"]*)" should be "([^"]*)"$`, t.theBalanceOfShouldBe)
	ctx.Then(`^the balances should sum to zero$`, t.theBalancesShouldSumToZero)
	ctx.Then(`^the settlement plan should have (\d+) transfers?$`, t.theSettlementPlanShouldHaveTransfers)
	ctx.Then(`^"([^"]*)" should pay "([^"]*)" to "([^"]*)"$`, t.shouldPayTo)
}

func (t *TestContext) user(name string) (*scenarioUser, error) {
	user, ok := t.users[name]
	if !ok {
		return nil, fmt.Errorf("user %q was not registered in this scenario", name)
	}
	return user, nil
}

// actAs sends a JSON request as the named user and fails unless the API
// answers with expectedStatus.
func (t *TestContext) actAs(name, method, path string, payload any, expectedStatus int) (map[string]any, error) {
	user, err := t.user(name)
	if err != nil {
		return nil, err
	}

	var raw []byte
	if payload != nil {
		if raw, err = json.Marshal(payload); err != nil {
			return nil, err
		}
	}

	resp, err := t.do(method, path, raw, user.AccessToken, nil)
	if err != nil {
		return nil, err
	}
	if resp.status != expectedStatus {
		return nil, fmt.Errorf("%s %s as %s: expected status %d, got %d (body: %s)",
			method, path, name, expectedStatus, resp.status, string(resp.raw))
	}

	body, _ := resp.body.(map[string]any)
	if version, ok := numberField(body, "version"); ok {
		t.version = version
	}
	return body, nil
}

func (t *TestContext) theFollowingUsersAreRegistered(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("expected a header row and at least one user")
	}

	columns := map[string]int{}
	for i, cell := range table.Rows[0].Cells {
		columns[cell.Value] = i
	}

	for _, row := range table.Rows[1:] {
		cell := func(column string) string {
			if i, ok := columns[column]; ok {
				return row.Cells[i].Value
			}
			return ""
		}

		user := &scenarioUser{
			Name:     cell("name"),
			Email:    cell("email"),
			Password: cell("password"),
		}
		if user.Password == "" {
			user.Password = defaultPassword
		}

		payload, _ := json.Marshal(map[string]string{
			"name":     user.Name,
			"email":    user.Email,
			"password": user.Password,
		})
		resp, err := t.do(http.MethodPost, "/api/v1/auth/signup", payload, "", nil)
		if err != nil {
			return err
		}
		if resp.status != http.StatusCreated {
			return fmt.Errorf("signup of %s failed with %d: %s", user.Email, resp.status, string(resp.raw))
		}

		body, _ := resp.body.(map[string]any)
		user.AccessToken, _ = body["accessToken"].(string)
		user.RefreshToken, _ = body["refreshToken"].(string)
		if profile, ok := body["user"].(map[string]any); ok {
			user.ID, _ = uuidField(profile, "id")
		}
		if user.ID == uuid.Nil || user.AccessToken == "" {
			return fmt.Errorf("signup of %s returned no user id or token: %s", user.Email, string(resp.raw))
		}

		t.users[user.Name] = user
	}

	return nil
}

func (t *TestContext) iAmSignedInAs(name string) error {
	user, err := t.user(name)
	if err != nil {
		return err
	}
	t.accessToken = user.AccessToken
	t.refreshToken = user.RefreshToken
	return nil
}

func (t *TestContext) hasCreatedTheGroup(owner, groupName string) error {
	body, err := t.actAs(owner, http.MethodPost, "/api/v1/groups", map[string]string{"name": groupName}, http.StatusCreated)
	if err != nil {
		return err
	}

	id, ok := uuidField(body, "id")
	if !ok {
		return fmt.Errorf("group response has no id: %v", body)
	}
	t.groupID = id
	t.groupOwner = owner
	return nil
}

func (t *TestContext) hasCreatedTheGroupWith(owner, groupName, members string) error {
	if err := t.hasCreatedTheGroup(owner, groupName); err != nil {
		return err
	}
	for _, member := range splitNames(members) {
		if member == owner {
			continue
		}
		if err := t.hasAddedToTheGroup(owner, member); err != nil {
			return err
		}
	}
	return nil
}

func (t *TestContext) hasAddedToTheGroup(actor, member string) error {
	user, err := t.user(member)
	if err != nil {
		return err
	}
	_, err = t.actAs(actor, http.MethodPost, t.groupPath("/members"), map[string]string{"email": user.Email}, http.StatusCreated)
	return err
}

func (t *TestContext) hasAddedAnEqualExpense(actor, description, amount, payer, participants string) error {
	paidBy, err := t.user(payer)
	if err != nil {
		return err
	}
	ids, err := t.userIDs(splitNames(participants))
	if err != nil {
		return err
	}

	return t.createExpense(actor, map[string]any{
		"description":  description,
		"amount":       json.Number(amount),
		"paidBy":       paidBy.ID,
		"splitBetween": ids,
		"splitType":    "equal",
	})
}

func (t *TestContext) hasAddedAPercentageExpense(actor, description, amount, payer string, table *godog.Table) error {
	paidBy, err := t.user(payer)
	if err != nil {
		return err
	}

	ids := []uuid.UUID{}
	percentages := map[string]json.Number{}
	for _, row := range table.Rows[1:] {
		user, err := t.user(row.Cells[0].Value)
		if err != nil {
			return err
		}
		ids = append(ids, user.ID)
		percentages[user.ID.String()] = json.Number(row.Cells[1].Value)
	}

	return t.createExpense(actor, map[string]any{
		"description":  description,
		"amount":       json.Number(amount),
		"paidBy":       paidBy.ID,
		"splitBetween": ids,
		"splitType":    "percentage",
		"percentages":  percentages,
	})
}

func (t *TestContext) createExpense(actor string, payload map[string]any) error {
	body, err := t.actAs(actor, http.MethodPost, t.groupPath("/expenses"), payload, http.StatusCreated)
	if err != nil {
		return err
	}
	if expense, ok := body["expense"].(map[string]any); ok {
		t.rememberExpense(expense)
	}
	return nil
}

func (t *TestContext) hasPaidTo(payer, amount, payee string) error {
	user, err := t.user(payee)
	if err != nil {
		return err
	}
	_, err = t.actAs(payer, http.MethodPost, t.groupPath("/settlements"), map[string]any{
		"payeeId": user.ID,
		"amount":  json.Number(amount),
	}, http.StatusCreated)
	return err
}

func (t *TestContext) hasLeftTheGroup(member string) error {
	_, err := t.actAs(member, http.MethodPost, t.groupPath("/leave"), nil, http.StatusOK)
	return err
}

// balances fetches the group's balances as the group owner.
func (t *TestContext) balances() (map[string]any, error) {
	return t.actAs(t.groupOwner, http.MethodGet, t.groupPath("/balances"), nil, http.StatusOK)
}

func (t *TestContext) balanceByName(body map[string]any) map[string]decimal.Decimal {
	result := map[string]decimal.Decimal{}
	entries, _ := body["balances"].([]any)
	for _, entry := range entries {
		name, _ := getFieldValue(entry, "user.name").(string)
		amount, _ := getFieldValue(entry, "balance").(json.Number)
		value, err := decimal.NewFromString(amount.String())
		if err == nil {
			result[name] = value
		}
	}
	return result
}

func (t *TestContext) theBalancesShouldBe(table *godog.Table) error {
	body, err := t.balances()
	if err != nil {
		return err
	}
	actual := t.balanceByName(body)

	for _, row := range table.Rows[1:] {
		name := row.Cells[0].Value
		if err := compareAmount(actual, name, row.Cells[1].Value); err != nil {
			return err
		}
	}
	return nil
}

func (t *TestContext) theBalanceOfShouldBe(name, expected string) error {
	body, err := t.balances()
	if err != nil {
		return err
	}
	return compareAmount(t.balanceByName(body), name, expected)
}

func compareAmount(actual map[string]decimal.Decimal, name, expected string) error {
	want, err := decimal.NewFromString(expected)
	if err != nil {
		return fmt.Errorf("invalid expected amount %q: %w", expected, err)
	}
	got, ok := actual[name]
	if !ok {
		return fmt.Errorf("no balance listed for %s: %v", name, actual)
	}
	if !got.Equal(want) {
		return fmt.Errorf("balance of %s expected %s, got %s", name, want.StringFixed(2), got.StringFixed(2))
	}
	return nil
}

func (t *TestContext) theBalancesShouldSumToZero() error {
	body, err := t.balances()
	if err != nil {
		return err
	}

	total := decimal.Zero
	for _, amount := range t.balanceByName(body) {
		total = total.Add(amount)
	}
	if !total.IsZero() {
		return fmt.Errorf("balances sum to %s", total.StringFixed(2))
	}
	return nil
}

func (t *TestContext) theSettlementPlanShouldHaveTransfers(count int) error {
	body, err := t.balances()
	if err != nil {
		return err
	}
	transfers, _ := body["transactions"].([]any)
	if len(transfers) != count {
		return fmt.Errorf("expected %d transfers, got %d: %v", count, len(transfers), transfers)
	}
	return nil
}

func (t *TestContext) shouldPayTo(from, amount, to string) error {
	body, err := t.balances()
	if err != nil {
		return err
	}
	want, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}

	transfers, _ := body["transactions"].([]any)
	for _, transfer := range transfers {
		fromName, _ := getFieldValue(transfer, "from.name").(string)
		toName, _ := getFieldValue(transfer, "to.name").(string)
		raw, _ := getFieldValue(transfer, "amount").(json.Number)
		got, err := decimal.NewFromString(raw.String())
		if err == nil && fromName == from && toName == to && got.Equal(want) {
			return nil
		}
	}
	return fmt.Errorf("no transfer of %s from %s to %s in %v", amount, from, to, transfers)
}

func (t *TestContext) groupPath(suffix string) string {
	return "/api/v1/groups/" + t.groupID.String() + suffix
}

func (t *TestContext) userIDs(names []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		user, err := t.user(name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, user.ID)
	}
	return ids, nil
}

// splitNames reads lists like "Alice, Bob and Carol".
func splitNames(list string) []string {
	var names []string
	for _, name := range strings.Split(strings.ReplaceAll(list, " and ", ","), ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
