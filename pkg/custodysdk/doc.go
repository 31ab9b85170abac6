/*
Package custodysdk is a client for the certificate custody service, and the
home of the wire types and error responses the service writes.

# SDKClient vs Session

  - SDKClient: health checks and login
  - Session: every operation that needs a signed-in user

Log in to get a session:

	client := custodysdk.NewSDKClient("http://localhost:8080")
	session, err := client.Login(ctx, "admin", "adminpass")

	certs, err := session.ListCertificates(ctx)
	err = session.Issue(ctx, 5, "collected by parent")

A Session sends its token as a bearer header. The service also accepts the
token cookie it sets on login, which is what browsers use.

# Errors

Failed calls return *APIError. Compare on Code, or with errors.Is against the
predefined values:

	if errors.Is(err, custodysdk.ErrForbidden) {
		// role not allowed
	}
*/
package custodysdk
