package lib

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/big"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"tutorhub/src/config"
	"tutorhub/src/types"

	"github.com/tidwall/gjson"
)

type GatewayClient struct {
	BaseURL     string
	EntityID    string
	AccessToken string
	HTTPClient  *http.Client
}

var gatewayClient *GatewayClient

func GetGatewayClient() *GatewayClient {
	if gatewayClient != nil {
		return gatewayClient
	}
	gatewayClient = &GatewayClient{
		BaseURL:     config.GatewayBaseURL(),
		EntityID:    config.GatewayEntityID(),
		AccessToken: config.GatewayAccessToken(),
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
	}
	return gatewayClient
}

// NewGatewayClient replaces the gateway instance with a custom client implementation
func NewGatewayClient(c *GatewayClient) *GatewayClient {
	gatewayClient = c
	return gatewayClient
}

type CheckoutCustomer struct {
	Email     string
	GivenName string
	Surname   string
}

type CheckoutBilling struct {
	Street1  string
	City     string
	State    string
	Country  string
	Postcode string
}

type CheckoutCard struct {
	Number      string
	Holder      string
	ExpiryMonth string
	ExpiryYear  string
	CVV         string
}

type CheckoutPayload struct {
	Amount                float64
	Currency              string
	MerchantTransactionID string
	PaymentBrand          types.CardBrand
	Customer              CheckoutCustomer
	Billing               CheckoutBilling
	// Card is posted only when a saved-card registration is not used.
	Card               *CheckoutCard
	RegistrationID     *string
	CreateRegistration bool
}

type CheckoutResult struct {
	CheckoutID        string
	RedirectURL       string
	ResultCode        string
	ResultDescription string
}

type StatusResult struct {
	ResultCode            string
	ResultDescription     string
	MerchantTransactionID string
	RegistrationID        string
	Raw                   types.JSONB
}

// IsSuccessCode reports whether a gateway result code signals success. The
// provider uses a literal "000." prefix; anything else, including an absent
// code, is failure.
func IsSuccessCode(code string) bool {
	return strings.HasPrefix(code, "000.")
}

var merchantTxnPattern = regexp.MustCompile(`BK(\d+)_`)
var merchantTxnSanitizer = regexp.MustCompile(`[^A-Z0-9_]`)

const merchantTxnMaxLen = 32

// NewMerchantTransactionID builds the correlation key echoed back by the
// gateway on asynchronous redirects. The booking id must survive the round
// trip, so the value is sanitized and truncated while keeping the BK<id>_
// prefix intact.
func NewMerchantTransactionID(bookingID uint) string {
	raw := fmt.Sprintf("BK%d_%s", bookingID, randAlnum(12))
	clean := merchantTxnSanitizer.ReplaceAllString(strings.ToUpper(raw), "")
	if len(clean) > merchantTxnMaxLen {
		clean = clean[:merchantTxnMaxLen]
	}
	return clean
}

func BookingIDFromMerchantTxn(s string) (uint, bool) {
	m := merchantTxnPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	var id uint
	if _, err := fmt.Sscanf(m[1], "%d", &id); err != nil {
		return 0, false
	}
	return id, true
}

const alnum = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randAlnum(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(alnum)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			b[i] = alnum[0]
			continue
		}
		b[i] = alnum[idx.Int64()]
	}
	return string(b)
}

// DetectCardBrand resolves the gateway brand code from the card prefix.
func DetectCardBrand(pan string) types.CardBrand {
	switch {
	case strings.HasPrefix(pan, "4"):
		return types.BRAND_VISA
	case len(pan) >= 2 && pan[0] == '5' && pan[1] >= '1' && pan[1] <= '5':
		return types.BRAND_MASTERCARD
	case strings.HasPrefix(pan, "6011") || strings.HasPrefix(pan, "65"):
		return types.BRAND_DISCOVER
	case strings.HasPrefix(pan, "34") || strings.HasPrefix(pan, "37"):
		return types.BRAND_AMEX
	case strings.HasPrefix(pan, "6") || strings.HasPrefix(pan, "9"):
		return types.BRAND_MADA
	default:
		return types.BRAND_VISA
	}
}

func (c *GatewayClient) CreateCheckout(ctx context.Context, p *CheckoutPayload) (*CheckoutResult, error) {
	form := url.Values{}
	form.Set("entityId", c.EntityID)
	form.Set("amount", fmt.Sprintf("%.2f", p.Amount))
	form.Set("currency", p.Currency)
	form.Set("paymentType", "DB")
	form.Set("merchantTransactionId", p.MerchantTransactionID)
	form.Set("paymentBrand", string(p.PaymentBrand))
	form.Set("shopperResultUrl", config.ShopperResultURL())
	form.Set("customer.email", p.Customer.Email)
	form.Set("customer.givenName", p.Customer.GivenName)
	form.Set("customer.surname", p.Customer.Surname)
	form.Set("billing.street1", p.Billing.Street1)
	form.Set("billing.city", p.Billing.City)
	form.Set("billing.state", p.Billing.State)
	form.Set("billing.country", p.Billing.Country)
	form.Set("billing.postcode", p.Billing.Postcode)
	if p.RegistrationID != nil && *p.RegistrationID != "" {
		form.Set("registrationId", *p.RegistrationID)
	} else if p.Card != nil {
		form.Set("card.number", p.Card.Number)
		form.Set("card.holder", p.Card.Holder)
		form.Set("card.expiryMonth", p.Card.ExpiryMonth)
		form.Set("card.expiryYear", p.Card.ExpiryYear)
		form.Set("card.cvv", p.Card.CVV)
	}
	if p.CreateRegistration {
		form.Set("createRegistration", "true")
	}

	body, err := c.doForm(ctx, http.MethodPost, c.BaseURL+"/v1/checkouts", form)
	if err != nil {
		return nil, err
	}
	result := &CheckoutResult{
		CheckoutID:        gjson.GetBytes(body, "id").String(),
		RedirectURL:       gjson.GetBytes(body, "redirect.url").String(),
		ResultCode:        gjson.GetBytes(body, "result.code").String(),
		ResultDescription: gjson.GetBytes(body, "result.description").String(),
	}
	return result, nil
}

func (c *GatewayClient) GetCheckoutStatus(ctx context.Context, checkoutID string) (*StatusResult, error) {
	path := fmt.Sprintf("/v1/checkouts/%s", checkoutID)
	return c.GetStatusByResourcePath(ctx, path)
}

// RefundPayment submits a referenced refund against an earlier debit. The
// gateway settles it asynchronously; the caller only learns whether the
// request was accepted.
func (c *GatewayClient) RefundPayment(ctx context.Context, paymentReference string, amount float64, currency string) (*StatusResult, error) {
	form := url.Values{}
	form.Set("entityId", c.EntityID)
	form.Set("amount", fmt.Sprintf("%.2f", amount))
	form.Set("currency", currency)
	form.Set("paymentType", "RF")

	body, err := c.doForm(ctx, http.MethodPost, fmt.Sprintf("%s/v1/payments/%s", c.BaseURL, paymentReference), form)
	if err != nil {
		return nil, err
	}
	result := &StatusResult{
		ResultCode:        gjson.GetBytes(body, "result.code").String(),
		ResultDescription: gjson.GetBytes(body, "result.description").String(),
	}
	return result, nil
}

// GetStatusByResourcePath resolves a status lookup for the resourcePath the
// gateway hands back on the shopper redirect.
func (c *GatewayClient) GetStatusByResourcePath(ctx context.Context, resourcePath string) (*StatusResult, error) {
	u := fmt.Sprintf("%s%s?entityId=%s", c.BaseURL, resourcePath, url.QueryEscape(c.EntityID))
	body, err := c.doForm(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	result := &StatusResult{
		ResultCode:            gjson.GetBytes(body, "result.code").String(),
		ResultDescription:     gjson.GetBytes(body, "result.description").String(),
		MerchantTransactionID: gjson.GetBytes(body, "merchantTransactionId").String(),
		RegistrationID:        gjson.GetBytes(body, "registrationId").String(),
	}
	var raw types.JSONB
	if err := json.Unmarshal(body, &raw); err == nil {
		result.Raw = raw
	}
	return result, nil
}

// doForm performs the HTTP exchange with a single retry on network errors and
// 5xx responses before surfacing ErrGatewayUnavailable.
func (c *GatewayClient) doForm(ctx context.Context, method, rawurl string, form url.Values) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		var reqBody io.Reader
		if form != nil {
			reqBody = strings.NewReader(form.Encode())
		}
		req, err := http.NewRequestWithContext(ctx, method, rawurl, reqBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.AccessToken)
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		res, err := c.HTTPClient.Do(req)
		if err != nil {
			log.Printf("[gateway] attempt %d failed: %s\n", attempt+1, err.Error())
			lastErr = err
			continue
		}
		body, err := io.ReadAll(res.Body)
		res.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if res.StatusCode >= http.StatusInternalServerError {
			log.Printf("[gateway] attempt %d returned %d\n", attempt+1, res.StatusCode)
			lastErr = fmt.Errorf("gateway returned status %d", res.StatusCode)
			continue
		}
		return body, nil
	}
	log.Printf("[gateway] giving up: %s\n", lastErr.Error())
	return nil, types.ErrGatewayUnavailable
}
