package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/najmfleet/employee_requests_app/internal/apperrors"
	"github.com/najmfleet/employee_requests_app/internal/core/domain"
	"github.com/najmfleet/employee_requests_app/internal/core/ports/storage"
	"github.com/najmfleet/employee_requests_app/internal/dto"
	"github.com/najmfleet/employee_requests_app/internal/middleware"
)

// UploadFiles attaches files to the owner's pending request, routing per
// type: car-wash photos fill the next empty slot in canonical order (extra
// files are silently ignored once all five are full), inspections split
// images from videos under their caps, invoice and advance replace their
// single file. Files failing extension validation are skipped silently.
func (s *RequestService) UploadFiles(ctx context.Context, owner *domain.Employee, requestID int64, files []storage.FileInput) ([]dto.UploadedFileDescriptor, error) {
	tx, err := s.requestRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.requestRepo.Rollback(ctx, tx) }()

	request, err := s.requestRepo.FindRequestForUpdate(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}
	if request.EmployeeID != owner.ID {
		return nil, apperrors.ErrNotFound
	}
	if !request.IsPending() {
		return nil, apperrors.ErrNotEditable
	}

	descriptors := []dto.UploadedFileDescriptor{}

	switch request.Type {
	case domain.TypeCarWash:
		ext := request.CarWash
		used := map[domain.MediaSlot]bool{}
		for _, m := range ext.Media {
			used[m.Slot] = true
		}
		for _, file := range files {
			slot, ok := nextFreeSlot(used)
			if !ok {
				break
			}
			if !storage.IsImage(file.Name) {
				continue
			}
			relPath, size, err := s.local.SaveLocal(storage.CategoryCarWash, file.Name, file.Reader)
			if err != nil {
				return nil, err
			}
			media := domain.CarWashMedia{WashRequestID: ext.ID, Slot: slot, LocalPath: &relPath, FileSizeBytes: &size}
			if err := s.requestRepo.InsertCarWashMedia(ctx, tx, &media); err != nil {
				return nil, err
			}
			used[slot] = true
			ext.Media = append(ext.Media, media)
			descriptors = append(descriptors, dto.UploadedFileDescriptor{
				Kind: "car_wash_photo", Slot: string(slot), MediaID: media.ID, LocalPath: relPath, SizeBytes: size,
			})
		}

	case domain.TypeCarInspection:
		ext := request.Inspection
		images, videos := ext.CountMedia()
		for _, file := range files {
			var kind domain.InspectionFileKind
			switch {
			case storage.IsImage(file.Name):
				kind = domain.FileImage
			case storage.IsVideo(file.Name):
				kind = domain.FileVideo
			default:
				continue
			}
			if kind == domain.FileImage && images >= domain.MaxInspectionImages {
				return nil, fmt.Errorf("%w: inspection image cap reached", apperrors.ErrQuotaExceeded)
			}
			if kind == domain.FileVideo && videos >= domain.MaxInspectionVideos {
				return nil, fmt.Errorf("%w: inspection video cap reached", apperrors.ErrQuotaExceeded)
			}
			media, err := s.saveInspectionMedia(ctx, tx, ext, kind, file)
			if err != nil {
				return nil, err
			}
			if kind == domain.FileImage {
				images++
			} else {
				videos++
			}
			descriptors = append(descriptors, dto.UploadedFileDescriptor{
				Kind: "inspection_" + strings.ToLower(string(kind)), MediaID: media.ID,
				LocalPath: *media.LocalPath, SizeBytes: derefOrZero(media.FileSizeBytes),
			})
		}

	case domain.TypeInvoice:
		for _, file := range files {
			if !storage.IsImage(file.Name) && !storage.IsPDF(file.Name) {
				continue
			}
			relPath, size, err := s.local.SaveLocal(storage.CategoryInvoices, file.Name, file.Reader)
			if err != nil {
				return nil, err
			}
			ext := request.Invoice
			ext.LocalImagePath = &relPath
			ext.FileSizeBytes = &size
			ext.RemoteFileID = nil
			ext.RemoteViewURL = nil
			if err := s.requestRepo.UpdateInvoiceFile(ctx, tx, ext); err != nil {
				return nil, err
			}
			descriptors = append(descriptors, dto.UploadedFileDescriptor{Kind: "invoice_file", LocalPath: relPath, SizeBytes: size})
			break
		}

	case domain.TypeAdvancePayment:
		for _, file := range files {
			if !storage.IsImage(file.Name) {
				continue
			}
			relPath, _, err := s.local.SaveLocal(storage.CategoryAdvancePayments, file.Name, file.Reader)
			if err != nil {
				return nil, err
			}
			ext := request.Advance
			ext.LocalImagePath = &relPath
			ext.RemoteFileID = nil
			ext.RemoteViewURL = nil
			if err := s.requestRepo.UpdateAdvanceImage(ctx, tx, ext); err != nil {
				return nil, err
			}
			descriptors = append(descriptors, dto.UploadedFileDescriptor{Kind: "advance_image", LocalPath: relPath})
			break
		}
	}

	if err := s.requestRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.mirrorRequestFiles(ctx, request)
	fillRemoteDescriptors(descriptors, request)
	return descriptors, nil
}

// UploadInspectionImage attaches a single image to a pending inspection.
func (s *RequestService) UploadInspectionImage(ctx context.Context, owner *domain.Employee, requestID int64, file storage.FileInput) (*domain.CarInspectionMedia, error) {
	if !storage.IsImage(file.Name) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedMedia, file.Name)
	}

	tx, err := s.requestRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.requestRepo.Rollback(ctx, tx) }()

	request, err := s.requestRepo.FindRequestForUpdate(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}
	if request.EmployeeID != owner.ID {
		return nil, apperrors.ErrNotFound
	}
	if request.Type != domain.TypeCarInspection {
		return nil, fmt.Errorf("%w: not a car inspection request", apperrors.ErrValidation)
	}
	if !request.IsPending() {
		return nil, apperrors.ErrNotEditable
	}

	images, _ := request.Inspection.CountMedia()
	if images >= domain.MaxInspectionImages {
		return nil, fmt.Errorf("%w: inspection image cap reached", apperrors.ErrQuotaExceeded)
	}

	media, err := s.saveInspectionMedia(ctx, tx, request.Inspection, domain.FileImage, file)
	if err != nil {
		return nil, err
	}
	if err := s.requestRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.mirrorRequestFiles(ctx, request)
	for i := range request.Inspection.Media {
		if request.Inspection.Media[i].ID == media.ID {
			return &request.Inspection.Media[i], nil
		}
	}
	return media, nil
}

// saveInspectionMedia writes the file locally and inserts its row under the
// caller's transaction. The row starts with upload_status pending; the
// mirror pass flips it afterwards.
func (s *RequestService) saveInspectionMedia(ctx context.Context, tx pgx.Tx, ext *domain.CarInspectionExtension, kind domain.InspectionFileKind, file storage.FileInput) (*domain.CarInspectionMedia, error) {
	relPath, size, err := s.local.SaveLocal(storage.CategoryCarInspections, file.Name, file.Reader)
	if err != nil {
		return nil, err
	}
	original := file.Name
	media := domain.CarInspectionMedia{
		InspectionID:     ext.ID,
		Kind:             kind,
		OriginalFilename: &original,
		LocalPath:        &relPath,
		FileSizeBytes:    &size,
		UploadStatus:     domain.UploadPending,
	}
	if err := s.requestRepo.InsertInspectionMedia(ctx, tx, &media); err != nil {
		return nil, err
	}
	ext.Media = append(ext.Media, media)
	return &ext.Media[len(ext.Media)-1], nil
}

// --- owner edits (pending window only) ---

// editUnderLock locks the request row, enforces owner, type and the pending
// window, runs apply inside the transaction and commits. Holding the lock for
// the whole edit keeps a concurrent review from interleaving with the field
// writes.
func (s *RequestService) editUnderLock(ctx context.Context, owner *domain.Employee, requestID int64, wantType domain.RequestType, apply func(tx pgx.Tx, request *domain.Request) error) error {
	tx, err := s.requestRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.requestRepo.Rollback(ctx, tx) }()

	request, err := s.requestRepo.FindRequestForUpdate(ctx, tx, requestID)
	if err != nil {
		return err
	}
	if request.EmployeeID != owner.ID {
		return apperrors.ErrNotFound
	}
	if request.Type != wantType {
		return fmt.Errorf("%w: request is not of type %s", apperrors.ErrValidation, wantType)
	}
	if !request.IsPending() {
		return apperrors.ErrNotEditable
	}
	if err := apply(tx, request); err != nil {
		return err
	}
	return s.requestRepo.Commit(ctx, tx)
}

// UpdateCarWash patches service type and scheduled date, detaches media by
// id and attaches new slot photos, all under the request row lock.
func (s *RequestService) UpdateCarWash(ctx context.Context, owner *domain.Employee, requestID int64, req dto.UpdateCarWashRequest, slotFiles map[domain.MediaSlot]storage.FileInput) (*domain.Request, error) {
	var requestedType *domain.CarWashServiceType
	if req.ServiceType != "" {
		st := domain.CarWashServiceType(strings.ToUpper(req.ServiceType))
		if !st.Valid() {
			return nil, fmt.Errorf("%w: invalid service_type %q", apperrors.ErrValidation, req.ServiceType)
		}
		requestedType = &st
	}

	err := s.editUnderLock(ctx, owner, requestID, domain.TypeCarWash, func(tx pgx.Tx, request *domain.Request) error {
		ext := request.CarWash

		serviceType := ext.ServiceType
		if requestedType != nil {
			serviceType = *requestedType
		}
		scheduled := ext.ScheduledDate
		if d := dateOnlyPtr(req.ScheduledDate); d != nil {
			scheduled = d
		}
		if err := s.requestRepo.UpdateCarWashFields(ctx, tx, ext.ID, serviceType, scheduled); err != nil {
			return err
		}

		if err := s.detachCarWashMedia(ctx, tx, ext, owner.ID, req.DeleteMediaIDs); err != nil {
			return err
		}
		return s.attachCarWashSlots(ctx, tx, ext, slotFiles)
	})
	if err != nil {
		return nil, err
	}

	request, err := s.requestRepo.FindRequestByID(ctx, requestID, &owner.ID)
	if err != nil {
		return nil, err
	}
	s.mirrorRequestFiles(ctx, request)
	return request, nil
}

// detachCarWashMedia removes the named media rows and drops them from the
// in-memory extension so freed slots can be refilled in the same edit.
func (s *RequestService) detachCarWashMedia(ctx context.Context, tx pgx.Tx, ext *domain.CarWashExtension, ownerID int64, mediaIDs []int64) error {
	for _, id := range mediaIDs {
		removed, err := s.requestRepo.DetachCarWashMedia(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}
		if !removed {
			continue
		}
		kept := ext.Media[:0]
		for _, m := range ext.Media {
			if m.ID != id {
				kept = append(kept, m)
			}
		}
		ext.Media = kept
	}
	return nil
}

// attachCarWashSlots inserts named slot photos under the caller's row lock.
// A file for an already-occupied slot is ignored.
func (s *RequestService) attachCarWashSlots(ctx context.Context, tx pgx.Tx, ext *domain.CarWashExtension, slotFiles map[domain.MediaSlot]storage.FileInput) error {
	used := map[domain.MediaSlot]bool{}
	for _, m := range ext.Media {
		used[m.Slot] = true
	}
	for _, slot := range domain.SlotOrder {
		file, ok := slotFiles[slot]
		if !ok || used[slot] {
			continue
		}
		if !storage.IsImage(file.Name) {
			return fmt.Errorf("%w: %s", apperrors.ErrUnsupportedMedia, file.Name)
		}
		relPath, size, err := s.local.SaveLocal(storage.CategoryCarWash, file.Name, file.Reader)
		if err != nil {
			return err
		}
		media := domain.CarWashMedia{WashRequestID: ext.ID, Slot: slot, LocalPath: &relPath, FileSizeBytes: &size}
		if err := s.requestRepo.InsertCarWashMedia(ctx, tx, &media); err != nil {
			return err
		}
		used[slot] = true
		ext.Media = append(ext.Media, media)
	}
	return nil
}

// UpdateCarInspection patches inspection fields, detaches media by id and
// attaches new files under the same caps as upload, all under the row lock.
func (s *RequestService) UpdateCarInspection(ctx context.Context, owner *domain.Employee, requestID int64, req dto.UpdateCarInspectionRequest, files []storage.FileInput) (*domain.Request, error) {
	err := s.editUnderLock(ctx, owner, requestID, domain.TypeCarInspection, func(tx pgx.Tx, request *domain.Request) error {
		ext := request.Inspection

		inspectionType := ext.InspectionType
		if req.InspectionType != "" {
			inspectionType = req.InspectionType
		}
		inspectionDate := ext.InspectionDate
		if d := dateOnlyPtr(req.InspectionDate); d != nil {
			inspectionDate = *d
		}
		if err := s.requestRepo.UpdateInspectionFields(ctx, tx, ext.ID, inspectionType, inspectionDate); err != nil {
			return err
		}

		for _, id := range req.DeleteMediaIDs {
			removed, err := s.requestRepo.DetachInspectionMedia(ctx, tx, id, owner.ID)
			if err != nil {
				return err
			}
			if !removed {
				continue
			}
			kept := ext.Media[:0]
			for _, m := range ext.Media {
				if m.ID != id {
					kept = append(kept, m)
				}
			}
			ext.Media = kept
		}

		return s.attachInspectionFiles(ctx, tx, ext, files)
	})
	if err != nil {
		return nil, err
	}

	request, err := s.requestRepo.FindRequestByID(ctx, requestID, &owner.ID)
	if err != nil {
		return nil, err
	}
	s.mirrorRequestFiles(ctx, request)
	return request, nil
}

// attachInspectionFiles stores new inspection files under the caller's row
// lock, enforcing the image and video caps. Unsupported extensions are
// skipped silently, matching the upload path.
func (s *RequestService) attachInspectionFiles(ctx context.Context, tx pgx.Tx, ext *domain.CarInspectionExtension, files []storage.FileInput) error {
	images, videos := ext.CountMedia()
	for _, file := range files {
		var kind domain.InspectionFileKind
		switch {
		case storage.IsImage(file.Name):
			kind = domain.FileImage
		case storage.IsVideo(file.Name):
			kind = domain.FileVideo
		default:
			continue
		}
		if kind == domain.FileImage && images >= domain.MaxInspectionImages {
			return fmt.Errorf("%w: inspection image cap reached", apperrors.ErrQuotaExceeded)
		}
		if kind == domain.FileVideo && videos >= domain.MaxInspectionVideos {
			return fmt.Errorf("%w: inspection video cap reached", apperrors.ErrQuotaExceeded)
		}
		if _, err := s.saveInspectionMedia(ctx, tx, ext, kind, file); err != nil {
			return err
		}
		if kind == domain.FileImage {
			images++
		} else {
			videos++
		}
	}
	return nil
}

// UpdateAdvancePayment patches the amount, reason and installments of a
// pending advance under the row lock, re-deriving the installment amount.
func (s *RequestService) UpdateAdvancePayment(ctx context.Context, owner *domain.Employee, requestID int64, req dto.UpdateAdvancePaymentRequest, image *storage.FileInput) (*domain.Request, error) {
	if req.RequestedAmount != nil && !req.RequestedAmount.IsPositive() {
		return nil, fmt.Errorf("%w: requested_amount must be positive", apperrors.ErrValidation)
	}
	if req.Installments != nil && *req.Installments <= 0 {
		return nil, fmt.Errorf("%w: installments must be positive", apperrors.ErrValidation)
	}

	err := s.editUnderLock(ctx, owner, requestID, domain.TypeAdvancePayment, func(tx pgx.Tx, request *domain.Request) error {
		ext := request.Advance

		if req.RequestedAmount != nil {
			ext.RequestedAmount = *req.RequestedAmount
			ext.RemainingAmount = *req.RequestedAmount
		}
		if req.Reason != nil {
			ext.Reason = req.Reason
		}
		if req.Installments != nil {
			ext.Installments = req.Installments
		}
		if ext.Installments != nil {
			amount := domain.DeriveInstallmentAmount(ext.RequestedAmount, *ext.Installments)
			ext.InstallmentAmount = &amount
		}

		if err := s.requestRepo.UpdateAdvanceFields(ctx, tx, ext); err != nil {
			return err
		}
		if req.RequestedAmount != nil {
			if err := s.requestRepo.UpdateRequestAmount(ctx, tx, requestID, &ext.RequestedAmount); err != nil {
				return err
			}
		}

		if image != nil && storage.IsImage(image.Name) {
			relPath, _, err := s.local.SaveLocal(storage.CategoryAdvancePayments, image.Name, image.Reader)
			if err != nil {
				return err
			}
			ext.LocalImagePath = &relPath
			ext.RemoteFileID = nil
			ext.RemoteViewURL = nil
			if err := s.requestRepo.UpdateAdvanceImage(ctx, tx, ext); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	request, err := s.requestRepo.FindRequestByID(ctx, requestID, &owner.ID)
	if err != nil {
		return nil, err
	}
	s.mirrorRequestFiles(ctx, request)
	return request, nil
}

// UpdateInvoice patches vendor, amount and invoice date of a pending invoice
// under the row lock, optionally replacing its file.
func (s *RequestService) UpdateInvoice(ctx context.Context, owner *domain.Employee, requestID int64, req dto.UpdateInvoiceRequest, file *storage.FileInput) (*domain.Request, error) {
	if req.VendorName != nil && strings.TrimSpace(*req.VendorName) == "" {
		return nil, fmt.Errorf("%w: vendor_name must not be empty", apperrors.ErrValidation)
	}

	err := s.editUnderLock(ctx, owner, requestID, domain.TypeInvoice, func(tx pgx.Tx, request *domain.Request) error {
		ext := request.Invoice

		if req.VendorName != nil {
			ext.VendorName = *req.VendorName
		}
		if d := dateOnlyPtr(req.InvoiceDate); d != nil {
			ext.InvoiceDate = d
		}
		if err := s.requestRepo.UpdateInvoiceFields(ctx, tx, ext); err != nil {
			return err
		}
		if req.Amount != nil {
			if err := s.requestRepo.UpdateRequestAmount(ctx, tx, requestID, req.Amount); err != nil {
				return err
			}
		}

		if file != nil && (storage.IsImage(file.Name) || storage.IsPDF(file.Name)) {
			relPath, size, err := s.local.SaveLocal(storage.CategoryInvoices, file.Name, file.Reader)
			if err != nil {
				return err
			}
			ext.LocalImagePath = &relPath
			ext.FileSizeBytes = &size
			ext.RemoteFileID = nil
			ext.RemoteViewURL = nil
			if err := s.requestRepo.UpdateInvoiceFile(ctx, tx, ext); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	request, err := s.requestRepo.FindRequestByID(ctx, requestID, &owner.ID)
	if err != nil {
		return nil, err
	}
	s.mirrorRequestFiles(ctx, request)
	return request, nil
}

// --- remote mirroring ---

// RetryPendingMirrors re-attempts remote replication for attachments whose
// mirror is missing or failed. Invoked by the cron sweep; always returns nil
// because mirroring is best-effort by contract.
func (s *RequestService) RetryPendingMirrors(ctx context.Context) error {
	if !s.mirror.Enabled() {
		return nil
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	requests, err := s.requestRepo.ListRequestsWithPendingMirrors(ctx, 50)
	if err != nil {
		logger.Error("Pending-mirror scan failed", slog.String("error", err.Error()))
		return nil
	}
	if len(requests) == 0 {
		return nil
	}
	logger.Info("Retrying pending mirrors", slog.Int("requests", len(requests)))
	for i := range requests {
		s.mirrorRequestFiles(ctx, &requests[i])
	}
	return nil
}

// ensureRemoteFolder returns the request's remote folder, creating and
// recording it when absent. Returns nil when the remote store is disabled or
// unavailable.
func (s *RequestService) ensureRemoteFolder(ctx context.Context, request *domain.Request) *storage.RemoteFolder {
	if !s.mirror.Enabled() {
		return nil
	}
	if request.RemoteFolderID != nil && *request.RemoteFolderID != "" {
		folder := storage.RemoteFolder{FolderID: *request.RemoteFolderID}
		if request.RemoteFolderURL != nil {
			folder.FolderURL = *request.RemoteFolderURL
		}
		return &folder
	}

	logger := middleware.GetLoggerFromCtx(ctx)

	employeeName := ""
	if emp, err := s.employeeRepo.FindEmployeeByID(ctx, request.EmployeeID); err == nil {
		employeeName = emp.Name
	}

	var vehicleCode *string
	vehicleID := int64(0)
	if request.CarWash != nil {
		vehicleID = request.CarWash.VehicleID
	} else if request.Inspection != nil {
		vehicleID = request.Inspection.VehicleID
	}
	if vehicleID != 0 {
		if v, err := s.vehicleRepo.FindVehicleByID(ctx, vehicleID); err == nil {
			vehicleCode = &v.PlateNumber
		}
	}

	folder := s.mirror.EnsureRequestFolder(ctx, string(typeCategory(request.Type)), request.ID, employeeName, vehicleCode)
	if folder == nil {
		return nil
	}
	if err := s.requestRepo.SetRemoteFolder(ctx, request.ID, folder.FolderID, folder.FolderURL); err != nil {
		logger.Warn("Failed to record remote folder", slog.Int64("request_id", request.ID), slog.String("error", err.Error()))
	}
	request.RemoteFolderID = &folder.FolderID
	request.RemoteFolderURL = &folder.FolderURL
	return folder
}

// mirrorRequestFiles replicates every unmirrored attachment of the request
// to the remote store and persists the resulting identifiers. Best-effort
// throughout: failures are logged and the local copies stay canonical.
func (s *RequestService) mirrorRequestFiles(ctx context.Context, request *domain.Request) {
	folder := s.ensureRemoteFolder(ctx, request)
	if folder == nil {
		return
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	var dirty bool

	if ext := request.Invoice; ext != nil && ext.LocalImagePath != nil && ext.RemoteFileID == nil {
		if rf := s.mirror.MirrorFile(ctx, *ext.LocalImagePath, folder.FolderID, ""); rf != nil {
			ext.RemoteFileID = &rf.FileID
			ext.RemoteViewURL = &rf.ViewURL
			dirty = true
		}
	}
	if ext := request.Advance; ext != nil && ext.LocalImagePath != nil && ext.RemoteFileID == nil {
		if rf := s.mirror.MirrorFile(ctx, *ext.LocalImagePath, folder.FolderID, ""); rf != nil {
			ext.RemoteFileID = &rf.FileID
			ext.RemoteViewURL = &rf.ViewURL
			dirty = true
		}
	}
	if ext := request.CarWash; ext != nil {
		for i := range ext.Media {
			m := &ext.Media[i]
			if m.LocalPath == nil || m.RemoteFileID != nil {
				continue
			}
			if rf := s.mirror.MirrorFile(ctx, *m.LocalPath, folder.FolderID, string(m.Slot)+"_"+fileBase(*m.LocalPath)); rf != nil {
				m.RemoteFileID = &rf.FileID
				m.RemoteViewURL = &rf.ViewURL
				dirty = true
			}
		}
	}
	if ext := request.Inspection; ext != nil {
		for i := range ext.Media {
			m := &ext.Media[i]
			if m.LocalPath == nil || m.UploadStatus == domain.UploadCompleted {
				continue
			}
			if rf := s.mirror.MirrorFile(ctx, *m.LocalPath, folder.FolderID, derefOrEmpty(m.OriginalFilename)); rf != nil {
				m.RemoteFileID = &rf.FileID
				m.RemoteViewURL = &rf.ViewURL
				m.UploadStatus = domain.UploadCompleted
				m.UploadProgress = 100
			} else {
				m.UploadStatus = domain.UploadFailed
			}
			dirty = true
		}
	}

	if !dirty {
		return
	}
	if err := s.persistMirrorResults(ctx, request); err != nil {
		logger.Warn("Failed to persist mirror results", slog.Int64("request_id", request.ID), slog.String("error", err.Error()))
	}
}

// persistMirrorResults writes the remote identifiers gathered by a mirror
// pass in one short transaction.
func (s *RequestService) persistMirrorResults(ctx context.Context, request *domain.Request) error {
	tx, err := s.requestRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.requestRepo.Rollback(ctx, tx) }()

	if ext := request.Invoice; ext != nil && ext.RemoteFileID != nil {
		if err := s.requestRepo.UpdateInvoiceFile(ctx, tx, ext); err != nil {
			return err
		}
	}
	if ext := request.Advance; ext != nil && ext.RemoteFileID != nil {
		if err := s.requestRepo.UpdateAdvanceImage(ctx, tx, ext); err != nil {
			return err
		}
	}
	if ext := request.CarWash; ext != nil {
		for i := range ext.Media {
			m := &ext.Media[i]
			if m.RemoteFileID == nil {
				continue
			}
			if err := s.requestRepo.UpdateCarWashMedia(ctx, tx, m); err != nil {
				return err
			}
		}
	}
	if ext := request.Inspection; ext != nil {
		for i := range ext.Media {
			m := &ext.Media[i]
			if m.UploadStatus == domain.UploadPending {
				continue
			}
			if err := s.requestRepo.UpdateInspectionMedia(ctx, tx, m); err != nil {
				return err
			}
		}
	}
	return s.requestRepo.Commit(ctx, tx)
}

func nextFreeSlot(used map[domain.MediaSlot]bool) (domain.MediaSlot, bool) {
	for _, slot := range domain.SlotOrder {
		if !used[slot] {
			return slot, true
		}
	}
	return "", false
}

func derefOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

// fileBase returns the final path element of a stored relative path.
func fileBase(relPath string) string {
	if i := strings.LastIndexByte(relPath, '/'); i >= 0 {
		return relPath[i+1:]
	}
	return relPath
}

// fillRemoteDescriptors back-fills remote identifiers after a mirror pass.
func fillRemoteDescriptors(descriptors []dto.UploadedFileDescriptor, request *domain.Request) {
	for i := range descriptors {
		d := &descriptors[i]
		switch {
		case request.Invoice != nil && d.Kind == "invoice_file":
			d.RemoteFileID = request.Invoice.RemoteFileID
			d.RemoteURL = request.Invoice.RemoteViewURL
		case request.Advance != nil && d.Kind == "advance_image":
			d.RemoteFileID = request.Advance.RemoteFileID
			d.RemoteURL = request.Advance.RemoteViewURL
		case request.CarWash != nil && d.MediaID != 0:
			for _, m := range request.CarWash.Media {
				if m.ID == d.MediaID {
					d.RemoteFileID = m.RemoteFileID
					d.RemoteURL = m.RemoteViewURL
				}
			}
		case request.Inspection != nil && d.MediaID != 0:
			for _, m := range request.Inspection.Media {
				if m.ID == d.MediaID {
					d.RemoteFileID = m.RemoteFileID
					d.RemoteURL = m.RemoteViewURL
				}
			}
		}
	}
}
