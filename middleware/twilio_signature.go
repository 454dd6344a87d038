package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go/client"
)

// TwilioSignatureHeader is the header Twilio signs webhook requests with
const TwilioSignatureHeader = "X-Twilio-Signature"

// ValidateTwilioSignature rejects webhook calls whose X-Twilio-Signature does not match
// the configured public webhook URL and the posted form parameters
func ValidateTwilioSignature(authToken, webhookURL string, log *logrus.Logger) gin.HandlerFunc {
	requestValidator := client.NewRequestValidator(authToken)

	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "Invalid form body"})
			return
		}

		params := make(map[string]string, len(c.Request.PostForm))
		for key, values := range c.Request.PostForm {
			if len(values) > 0 {
				params[key] = values[0]
			}
		}

		signature := c.GetHeader(TwilioSignatureHeader)
		if signature == "" || !requestValidator.Validate(webhookURL, params, signature) {
			log.WithFields(logrus.Fields{
				"path":       c.Request.URL.Path,
				"request_id": GetRequestID(c),
			}).Warn("Rejected webhook with invalid Twilio signature")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Invalid request signature"})
			return
		}

		c.Next()
	}
}
