package lib

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"tutorhub/src/types"

	"github.com/stretchr/testify/assert"
)

func TestIsSuccessCode(t *testing.T) {
	assert.True(t, IsSuccessCode("000.000.000"))
	assert.True(t, IsSuccessCode("000.100.110"))
	assert.False(t, IsSuccessCode("800.100.151"))
	assert.False(t, IsSuccessCode("200.300.404"))
	assert.False(t, IsSuccessCode(""))
	assert.False(t, IsSuccessCode("000"))
}

func TestDetectCardBrand(t *testing.T) {
	cases := map[string]types.CardBrand{
		"4111111111111111": types.BRAND_VISA,
		"5105105105105100": types.BRAND_MASTERCARD,
		"5500000000000004": types.BRAND_MASTERCARD,
		"6011000990139424": types.BRAND_DISCOVER,
		"6500000000000002": types.BRAND_DISCOVER,
		"340000000000009":  types.BRAND_AMEX,
		"370000000000002":  types.BRAND_AMEX,
		"6271100000000000": types.BRAND_MADA,
		"9682000000000000": types.BRAND_MADA,
	}
	for pan, brand := range cases {
		assert.Equal(t, brand, DetectCardBrand(pan), "pan %s", pan)
	}
}

func TestMerchantTransactionID(t *testing.T) {
	txn := NewMerchantTransactionID(42)
	assert.True(t, strings.HasPrefix(txn, "BK42_"))
	assert.LessOrEqual(t, len(txn), 32)
	for _, c := range txn {
		ok := (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
		assert.Truef(t, ok, "unexpected character %q in %s", c, txn)
	}

	id, ok := BookingIDFromMerchantTxn(txn)
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
}

func TestBookingIDFromMerchantTxn(t *testing.T) {
	id, ok := BookingIDFromMerchantTxn("BK1078_X9F2K1M4Q7T2")
	assert.True(t, ok)
	assert.Equal(t, uint(1078), id)

	_, ok = BookingIDFromMerchantTxn("ORDER_1078")
	assert.False(t, ok)

	_, ok = BookingIDFromMerchantTxn("")
	assert.False(t, ok)

	_, ok = BookingIDFromMerchantTxn("BK_12")
	assert.False(t, ok)
}

func TestCreateCheckout(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkouts", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		r.ParseForm()
		gotForm = map[string]string{}
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"CHK123","result":{"code":"000.200.100","description":"successfully created checkout"},"redirect":{"url":"https://pay.example.com/3ds/CHK123"}}`)
	}))
	defer server.Close()

	client := NewGatewayClient(&GatewayClient{
		BaseURL:     server.URL,
		EntityID:    "entity-1",
		AccessToken: "test-token",
		HTTPClient:  server.Client(),
	})

	result, err := client.CreateCheckout(context.Background(), &CheckoutPayload{
		Amount:                200,
		Currency:              "SAR",
		MerchantTransactionID: "BK7_ABCDEF",
		PaymentBrand:          types.BRAND_VISA,
		Customer:              CheckoutCustomer{Email: "student@example.com", GivenName: "Sara", Surname: "Ahmed"},
		Card: &CheckoutCard{
			Number:      "4111111111111111",
			Holder:      "Sara Ahmed",
			ExpiryMonth: "05",
			ExpiryYear:  "2030",
			CVV:         "123",
		},
		CreateRegistration: true,
	})
	assert.Nil(t, err)
	assert.Equal(t, "CHK123", result.CheckoutID)
	assert.Equal(t, "https://pay.example.com/3ds/CHK123", result.RedirectURL)
	assert.Equal(t, "000.200.100", result.ResultCode)

	assert.Equal(t, "entity-1", gotForm["entityId"])
	assert.Equal(t, "200.00", gotForm["amount"])
	assert.Equal(t, "SAR", gotForm["currency"])
	assert.Equal(t, "DB", gotForm["paymentType"])
	assert.Equal(t, "BK7_ABCDEF", gotForm["merchantTransactionId"])
	assert.Equal(t, "VISA", gotForm["paymentBrand"])
	assert.Equal(t, "4111111111111111", gotForm["card.number"])
	assert.Equal(t, "true", gotForm["createRegistration"])
	_, hasRegistration := gotForm["registrationId"]
	assert.False(t, hasRegistration)
}

func TestCreateCheckoutWithRegistration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		assert.Equal(t, "REG987", r.PostForm.Get("registrationId"))
		assert.Empty(t, r.PostForm.Get("card.number"))
		fmt.Fprint(w, `{"id":"CHK456","result":{"code":"000.200.100"}}`)
	}))
	defer server.Close()

	client := NewGatewayClient(&GatewayClient{
		BaseURL:    server.URL,
		EntityID:   "entity-1",
		HTTPClient: server.Client(),
	})

	registrationId := "REG987"
	result, err := client.CreateCheckout(context.Background(), &CheckoutPayload{
		Amount:                150,
		Currency:              "SAR",
		MerchantTransactionID: "BK9_ABCDEF",
		PaymentBrand:          types.BRAND_MADA,
		RegistrationID:        &registrationId,
	})
	assert.Nil(t, err)
	assert.Equal(t, "CHK456", result.CheckoutID)
}

func TestGetCheckoutStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/checkouts/CHK123/payment", r.URL.Path)
		assert.Equal(t, "entity-1", r.URL.Query().Get("entityId"))
		fmt.Fprint(w, `{"result":{"code":"000.000.000","description":"Transaction succeeded"},"merchantTransactionId":"BK7_ABCDEF","registrationId":"REG11","amount":"200.00"}`)
	}))
	defer server.Close()

	client := NewGatewayClient(&GatewayClient{
		BaseURL:    server.URL,
		EntityID:   "entity-1",
		HTTPClient: server.Client(),
	})

	result, err := client.GetStatusByResourcePath(context.Background(), "/v1/checkouts/CHK123/payment")
	assert.Nil(t, err)
	assert.Equal(t, "000.000.000", result.ResultCode)
	assert.Equal(t, "Transaction succeeded", result.ResultDescription)
	assert.Equal(t, "BK7_ABCDEF", result.MerchantTransactionID)
	assert.Equal(t, "REG11", result.RegistrationID)
	assert.NotNil(t, result.Raw)
	assert.True(t, IsSuccessCode(result.ResultCode))
}

func TestRefundPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payments/PAY555", r.URL.Path)
		r.ParseForm()
		assert.Equal(t, "entity-1", r.PostForm.Get("entityId"))
		assert.Equal(t, "160.00", r.PostForm.Get("amount"))
		assert.Equal(t, "SAR", r.PostForm.Get("currency"))
		assert.Equal(t, "RF", r.PostForm.Get("paymentType"))
		fmt.Fprint(w, `{"result":{"code":"000.100.110","description":"Request successfully processed"}}`)
	}))
	defer server.Close()

	client := NewGatewayClient(&GatewayClient{
		BaseURL:    server.URL,
		EntityID:   "entity-1",
		HTTPClient: server.Client(),
	})

	result, err := client.RefundPayment(context.Background(), "PAY555", 160, "SAR")
	assert.Nil(t, err)
	assert.True(t, IsSuccessCode(result.ResultCode))
}

func TestRefundPaymentRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":{"code":"700.400.200","description":"cannot refund (refund volume exceeded or tx reversed or invalid workflow?)"}}`)
	}))
	defer server.Close()

	client := NewGatewayClient(&GatewayClient{
		BaseURL:    server.URL,
		EntityID:   "entity-1",
		HTTPClient: server.Client(),
	})

	result, err := client.RefundPayment(context.Background(), "PAY555", 160, "SAR")
	assert.Nil(t, err)
	assert.False(t, IsSuccessCode(result.ResultCode))
	assert.Equal(t, "700.400.200", result.ResultCode)
}

func TestGatewayRetriesOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"result":{"code":"000.000.000"}}`)
	}))
	defer server.Close()

	client := NewGatewayClient(&GatewayClient{
		BaseURL:    server.URL,
		EntityID:   "entity-1",
		HTTPClient: server.Client(),
	})

	result, err := client.GetCheckoutStatus(context.Background(), "CHK1")
	assert.Nil(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "000.000.000", result.ResultCode)
}

func TestGatewayUnavailableAfterRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewGatewayClient(&GatewayClient{
		BaseURL:    server.URL,
		EntityID:   "entity-1",
		HTTPClient: server.Client(),
	})

	_, err := client.GetCheckoutStatus(context.Background(), "CHK1")
	assert.ErrorIs(t, err, types.ErrGatewayUnavailable)
	assert.Equal(t, 2, attempts)
}

func TestGatewayDeclinedLeavesBodyIntact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"result":{"code":"800.100.151","description":"transaction declined (invalid card)"}}`)
	}))
	defer server.Close()

	client := NewGatewayClient(&GatewayClient{
		BaseURL:    server.URL,
		EntityID:   "entity-1",
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	})

	result, err := client.GetCheckoutStatus(context.Background(), "CHK1")
	assert.Nil(t, err)
	assert.False(t, IsSuccessCode(result.ResultCode))
	assert.Equal(t, "transaction declined (invalid card)", result.ResultDescription)
}
