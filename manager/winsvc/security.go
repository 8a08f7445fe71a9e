//go:build windows

package winsvc

import (
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc/mgr"

	"github.com/svchost/svchost/manager"
	"github.com/svchost/svchost/manager/errs"
)

// accessRightMask maps the Manager-contract AccessRight vocabulary onto
// the SCM access-mask bits the Win32 API defines (spec §4.5).
func accessRightMask(r manager.AccessRight) uint32 {
	switch r {
	case manager.AccessStart:
		return windows.SERVICE_START
	case manager.AccessStop:
		return windows.SERVICE_STOP
	case manager.AccessQueryStatus:
		return windows.SERVICE_QUERY_STATUS
	case manager.AccessQueryConfig:
		return windows.SERVICE_QUERY_CONFIG
	case manager.AccessChangeConfig:
		return windows.SERVICE_CHANGE_CONFIG
	case manager.AccessPauseContinue:
		return windows.SERVICE_PAUSE_CONTINUE
	case manager.AccessInterrogate:
		return windows.SERVICE_INTERROGATE
	case manager.AccessEnumerateDependents:
		return windows.SERVICE_ENUMERATE_DEPENDENTS
	case manager.AccessDelete:
		return windows.DELETE
	default:
		return 0
	}
}

// applyAdditionalAccess grants each trustee the union of its requested
// access rights by rewriting the service object's discretionary ACL,
// the same EXPLICIT_ACCESS/SetEntriesInAcl pattern the ecosystem uses for
// named-pipe ACLs on Windows.
func (m *Manager) applyAdditionalAccess(svcHandle *mgr.Service) error {
	if len(m.spec.Windows.AdditionalAccess) == 0 {
		return nil
	}

	sd, err := windows.GetNamedSecurityInfo(
		m.name,
		windows.SE_SERVICE,
		windows.DACL_SECURITY_INFORMATION,
	)
	if err != nil {
		return errs.New(errs.PermissionDenied, "windows", m.name, err)
	}

	dacl, _, err := sd.DACL()
	if err != nil {
		return errs.New(errs.PermissionDenied, "windows", m.name, err)
	}

	entries := make([]windows.EXPLICIT_ACCESS, 0, len(m.spec.Windows.AdditionalAccess))
	for trustee, rights := range m.spec.Windows.AdditionalAccess {
		var mask uint32
		for _, r := range rights {
			mask |= accessRightMask(r)
		}
		if mask == 0 {
			continue
		}
		sid, _, _, err := windows.LookupSID("", string(trustee))
		if err != nil {
			return errs.New(errs.InvalidData, "windows", string(trustee), err)
		}
		entries = append(entries, windows.EXPLICIT_ACCESS{
			AccessPermissions: windows.ACCESS_MASK(mask),
			AccessMode:        windows.GRANT_ACCESS,
			Inheritance:       windows.NO_INHERITANCE,
			Trustee: windows.TRUSTEE{
				TrusteeForm:  windows.TRUSTEE_IS_SID,
				TrusteeType:  windows.TRUSTEE_IS_UNKNOWN,
				TrusteeValue: windows.TrusteeValueFromSID(sid),
			},
		})
	}
	if len(entries) == 0 {
		return nil
	}

	var newACL *windows.ACL
	if err := windows.SetEntriesInAcl(entries, dacl, &newACL); err != nil {
		return errs.New(errs.IoFailure, "windows", m.name, err)
	}

	if err := windows.SetNamedSecurityInfo(
		m.name,
		windows.SE_SERVICE,
		windows.DACL_SECURITY_INFORMATION,
		nil, nil, newACL, nil,
	); err != nil {
		return errs.New(errs.PermissionDenied, "windows", m.name, err)
	}
	return nil
}

