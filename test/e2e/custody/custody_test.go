package custody_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/custody/pkg/custodysdk"
	"github.com/stretchr/testify/require"
)

// TestSeededStudentLedger checks what a freshly seeded student sees.
func TestSeededStudentLedger(t *testing.T) {
	client := custodysdk.NewSDKClient(setupCustodyContainer(t, relaxedRateLimits))
	ctx := context.Background()

	student := login(t, client, studentEmail, studentPassword)
	require.Equal(t, "STUDENT", student.Identity().Role)

	certs, err := student.ListCertificates(ctx)
	require.NoError(t, err)
	require.Len(t, certs, 7)

	titles := make([]string, 0, len(certs))
	for _, c := range certs {
		require.Equal(t, "not_present", c.Status)
		require.Equal(t, student.Identity().ID, c.UserID)
		titles = append(titles, c.Title)
	}
	require.Equal(t, []string{
		"Aadhar Xerox", "Birth Certificate", "10th TC", "12th TC",
		"PAN Card Xerox", "Voter ID Xerox", "Community Certificate",
	}, titles)
	require.Equal(t, int64(5), certs[4].ID)

	_, err = student.ListLogs(ctx)
	require.ErrorIs(t, err, custodysdk.ErrForbidden)
}

func TestCustodyLifecycle(t *testing.T) {
	client := custodysdk.NewSDKClient(setupCustodyContainer(t, relaxedRateLimits))
	ctx := context.Background()

	admin := login(t, client, adminEmail, adminPassword)
	mgmt := login(t, client, managementEmail, managementPass)
	student := login(t, client, studentEmail, studentPassword)

	require.NoError(t, admin.SetPresence(ctx, 5, true))

	issued, err := admin.Issue(ctx, 5, "")
	require.NoError(t, err)
	require.True(t, issued.OK)

	returned, err := admin.Return(ctx, 5, "back in the cabinet")
	require.NoError(t, err)
	require.False(t, returned.ReturnedAt.Before(issued.IssuedAt))

	_, err = student.Issue(ctx, 5, "")
	require.ErrorIs(t, err, custodysdk.ErrForbidden)
	_, err = admin.Issue(ctx, 99999, "")
	require.ErrorIs(t, err, custodysdk.ErrNotFound)

	logs, err := mgmt.ListLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, "return", logs[0].Action)
	require.Equal(t, "back in the cabinet", logs[0].Notes)
	require.Equal(t, "Issued by admin", logs[1].Notes)
	require.Equal(t, "Admin User", logs[1].By)
	require.Equal(t, "PAN Card Xerox", logs[1].Title)

	id, err := admin.CreateCertificate(ctx, custodysdk.CreateCertificateRequest{
		UserID: custodysdk.ID(student.Identity().ID), Title: "Migration Certificate",
	})
	require.NoError(t, err)

	certs, err := student.ListCertificates(ctx)
	require.NoError(t, err)
	require.Len(t, certs, 8)
	require.Equal(t, id, certs[7].ID)
	require.Equal(t, "present", certs[7].Status)
	require.Equal(t, 1, certs[7].PresentInOffice)
}

func TestReleaseRequestLifecycle(t *testing.T) {
	client := custodysdk.NewSDKClient(setupCustodyContainer(t, relaxedRateLimits))
	ctx := context.Background()

	admin := login(t, client, adminEmail, adminPassword)
	student := login(t, client, studentEmail, studentPassword)
	other := login(t, client, otherStudentEmail, studentPassword)

	reqID, err := student.SubmitRequest(ctx, 1, "Scholarship")
	require.NoError(t, err)

	_, err = other.SubmitRequest(ctx, 1, "not mine")
	require.ErrorIs(t, err, custodysdk.ErrForbidden)
	_, err = student.SubmitRequest(ctx, 0, "")
	require.ErrorIs(t, err, custodysdk.ErrMissingField)

	require.ErrorIs(t, admin.Decide(ctx, reqID, "maybe"), custodysdk.ErrInvalidDecision)
	require.NoError(t, admin.Decide(ctx, reqID, "approved"))
	require.ErrorIs(t, admin.Decide(ctx, reqID, "rejected"), custodysdk.ErrAlreadyDecided)

	mine, err := student.ListRequests(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "approved", mine[0].Status)
	require.Equal(t, "Aadhar Xerox", mine[0].Title)

	theirs, err := other.ListRequests(ctx)
	require.NoError(t, err)
	require.Empty(t, theirs)

	all, err := admin.ListRequests(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, studentEmail, all[0].Requester)
}

func TestLogoutEndsSession(t *testing.T) {
	client := custodysdk.NewSDKClient(setupCustodyContainer(t, relaxedRateLimits))
	ctx := context.Background()

	student := login(t, client, studentEmail, studentPassword)
	_, err := student.Me(ctx)
	require.NoError(t, err)

	require.NoError(t, student.Logout(ctx))

	_, err = student.Me(ctx)
	require.ErrorIs(t, err, custodysdk.ErrUnauthenticated)

	// A new login still works.
	login(t, client, studentEmail, studentPassword)
}

func TestSQLiteDriver(t *testing.T) {
	env := map[string]string{
		"STORE_DRIVER":  "sqlite",
		"DATABASE_FILE": "/data/custody.db",
	}
	for k, v := range relaxedRateLimits {
		env[k] = v
	}
	client := custodysdk.NewSDKClient(setupCustodyContainer(t, env))
	ctx := context.Background()

	ready, err := client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)

	admin := login(t, client, adminEmail, adminPassword)
	_, err = admin.Issue(ctx, 1, "")
	require.NoError(t, err)

	logs, err := admin.ListLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
}

// TestLoginRateLimit uses the production limits: five attempts a minute per
// IP and email.
func TestLoginRateLimit(t *testing.T) {
	client := custodysdk.NewSDKClient(setupCustodyContainer(t, nil))
	ctx := context.Background()

	for i := range 5 {
		_, err := client.Login(ctx, adminEmail, "wrong")
		require.ErrorIs(t, err, custodysdk.ErrInvalidCredential, "attempt %d", i+1)
	}

	_, err := client.Login(ctx, adminEmail, adminPassword)
	require.ErrorIs(t, err, custodysdk.ErrRateLimited)

	// Other accounts are unaffected.
	login(t, client, managementEmail, managementPass)
}
