package runtime

import (
	"go.uber.org/zap"

	"github.com/wippyai/mpi-runtime/attr"
	"github.com/wippyai/mpi-runtime/errors"
	"github.com/wippyai/mpi-runtime/handle"
)

// CreateWinKeyval creates an attribute key for windows and stores its handle
// in *winKeyval. On failure *winKeyval is left untouched and nothing stays
// allocated.
func (p *Process) CreateWinKeyval(copyFn attr.CopyFunc, deleteFn attr.DeleteFunc, winKeyval *handle.Handle, extraState any) error {
	return p.createKeyval(handle.ObjectWin, attr.NewCopier(copyFn), attr.NewDeleter(deleteFn), winKeyval, "win_keyval", extraState)
}

// CreateCommKeyval creates an attribute key for communicators.
func (p *Process) CreateCommKeyval(copyFn attr.CopyFunc, deleteFn attr.DeleteFunc, commKeyval *handle.Handle, extraState any) error {
	return p.createKeyval(handle.ObjectComm, attr.NewCopier(copyFn), attr.NewDeleter(deleteFn), commKeyval, "comm_keyval", extraState)
}

// CreateTypeKeyval creates an attribute key for datatypes.
func (p *Process) CreateTypeKeyval(copyFn attr.CopyFunc, deleteFn attr.DeleteFunc, typeKeyval *handle.Handle, extraState any) error {
	return p.createKeyval(handle.ObjectDatatype, attr.NewCopier(copyFn), attr.NewDeleter(deleteFn), typeKeyval, "type_keyval", extraState)
}

// CreateKeyval creates an attribute key for objects of class owner whose
// callbacks are invoked through the given proxies, e.g. attr.NewLegacyCopier.
func (p *Process) CreateKeyval(owner handle.Object, copier attr.Copier, deleter attr.Deleter, keyval *handle.Handle, extraState any) error {
	return p.createKeyval(owner, copier, deleter, keyval, "keyval", extraState)
}

func (p *Process) createKeyval(owner handle.Object, copier attr.Copier, deleter attr.Deleter, out *handle.Handle, arg string, extraState any) error {
	p.cs.Lock()
	defer p.cs.Unlock()

	if out == nil {
		return errors.NullArgument(errors.PhaseRuntime, arg)
	}

	h, err := p.keyvals.CreateWithProxies(owner, copier, deleter, extraState)
	if err != nil {
		p.log.Debug("keyval creation failed", zap.Stringer("owner", owner), zap.Error(err))
		return err
	}
	*out = h
	p.log.Debug("keyval created", zap.Stringer("handle", h))
	return nil
}

// FreeWinKeyval marks the window keyval *winKeyval as freed and sets
// *winKeyval to handle.KeyvalInvalid. The key stays allocated while
// attribute lists still reference it.
func (p *Process) FreeWinKeyval(winKeyval *handle.Handle) error {
	return p.freeKeyval(handle.ObjectWin, winKeyval, "win_keyval")
}

// FreeCommKeyval frees a communicator keyval.
func (p *Process) FreeCommKeyval(commKeyval *handle.Handle) error {
	return p.freeKeyval(handle.ObjectComm, commKeyval, "comm_keyval")
}

// FreeTypeKeyval frees a datatype keyval.
func (p *Process) FreeTypeKeyval(typeKeyval *handle.Handle) error {
	return p.freeKeyval(handle.ObjectDatatype, typeKeyval, "type_keyval")
}

func (p *Process) freeKeyval(owner handle.Object, kv *handle.Handle, arg string) error {
	p.cs.Lock()
	defer p.cs.Unlock()

	if kv == nil {
		return errors.NullArgument(errors.PhaseRuntime, arg)
	}
	if err := p.keyvals.Free(*kv, owner); err != nil {
		return err
	}
	p.log.Debug("keyval freed", zap.Stringer("handle", *kv))
	*kv = handle.KeyvalInvalid
	return nil
}

// KeyvalInfo returns a snapshot of the keyval named by h.
func (p *Process) KeyvalInfo(h handle.Handle) (attr.Info, error) {
	p.cs.Lock()
	defer p.cs.Unlock()
	return p.keyvals.Info(h)
}

// Keyvals returns snapshots of every allocated keyval in handle order.
func (p *Process) Keyvals() []attr.Info {
	p.cs.Lock()
	defer p.cs.Unlock()

	out := make([]attr.Info, 0, p.keyvals.Len())
	p.keyvals.Each(func(info attr.Info) bool {
		out = append(out, info)
		return true
	})
	return out
}

// SetAttribute stores value under keyval in the attribute list of owner. A new
// attribute holds a reference on the keyval until DeleteAttributes releases
// it; an existing one has its old value passed to the delete callback first.
func (p *Process) SetAttribute(owner handle.Handle, list *attr.List, keyval handle.Handle, value any) error {
	p.cs.Lock()
	defer p.cs.Unlock()

	if list == nil {
		return errors.NullArgument(errors.PhaseRuntime, "attribute_list")
	}
	out, err := p.keyvals.Set(owner, *list, keyval, value)
	if err != nil {
		return err
	}
	*list = out
	return nil
}

// DupAttributes duplicates the attribute list of owner for newOwner through
// the bound hook. Before the first keyval exists the result is empty.
func (p *Process) DupAttributes(owner, newOwner handle.Handle, list attr.List) (attr.List, error) {
	p.cs.Lock()
	defer p.cs.Unlock()
	return p.keyvals.DupAttributes(owner, newOwner, list)
}

// DeleteAttributes tears down the attribute list of owner through the bound
// hook.
func (p *Process) DeleteAttributes(owner handle.Handle, list attr.List) error {
	p.cs.Lock()
	defer p.cs.Unlock()
	return p.keyvals.DeleteAttributes(owner, list)
}
