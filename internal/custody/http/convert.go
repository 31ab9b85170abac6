package http

import (
	"github.com/aussiebroadwan/custody/internal/custody/domain"
	"github.com/aussiebroadwan/custody/pkg/custodysdk"
)

func identityResponse(id domain.Identity) custodysdk.IdentityResponse {
	return custodysdk.IdentityResponse{
		ID:    id.UserID,
		Name:  id.Name,
		Email: id.Email,
		Role:  id.Role.String(),
	}
}

func certificateResponse(row domain.CertificateRow) custodysdk.Certificate {
	c := row.Certificate
	present := 0
	if c.PresentInOffice {
		present = 1
	}
	return custodysdk.Certificate{
		ID:                c.ID,
		UserID:            c.UserID,
		CertificateTypeID: c.CertificateTypeID,
		Title:             c.Title,
		Description:       c.Description,
		PresentInOffice:   present,
		Status:            string(c.Status),
		IssueDate:         c.IssueDate,
		ReturnDate:        c.ReturnDate,
		SubmittedAt:       c.SubmittedAt,
		CreatedAt:         c.CreatedAt,
		Owner:             row.Owner,
	}
}

func requestResponse(row domain.RequestRow) custodysdk.Request {
	r := row.Request
	return custodysdk.Request{
		ID:            r.ID,
		UserID:        r.UserID,
		CertificateID: r.CertificateID,
		Purpose:       r.Purpose,
		Status:        string(r.Status),
		DecidedBy:     r.DecidedBy,
		DecidedAt:     r.DecidedAt,
		CreatedAt:     r.CreatedAt,
		Title:         row.Title,
		Requester:     row.Requester,
	}
}

func activityResponse(row domain.LogRow) custodysdk.ActivityLog {
	return custodysdk.ActivityLog{
		ID:            row.ID,
		CertificateID: row.CertificateID,
		Action:        string(row.Action),
		ByUserID:      row.ByUserID,
		Timestamp:     row.Timestamp,
		Notes:         row.Notes,
		By:            row.By,
		Title:         row.Title,
	}
}
