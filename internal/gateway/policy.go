package gateway

import "fmt"

// BackendPolicy renders the inbound policy document that routes an
// operation's traffic to the given backend entity.
func BackendPolicy(backendID string) string {
	return fmt.Sprintf(`<policies>
    <inbound>
        <base />
        <set-backend-service id="apim-generated-policy" backend-id="%s" />
    </inbound>
    <backend>
        <base />
    </backend>
    <outbound>
        <base />
    </outbound>
    <on-error>
        <base />
    </on-error>
</policies>`, backendID)
}
