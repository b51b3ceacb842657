package attr

import (
	"github.com/wippyai/mpi-runtime/errors"
	"github.com/wippyai/mpi-runtime/handle"
)

// Attribute is one value attached to an object under a keyval.
type Attribute struct {
	Value  any
	Keyval handle.Handle
}

// List is the ordered attribute list of one object.
type List []Attribute

// DupList copies src for newOwner through each key's copy callback. Copied
// attributes retain their keyval. If a callback fails, attributes copied so
// far are deleted again and the error is returned.
func DupList(m *Manager, owner, newOwner handle.Handle, src List) (List, error) {
	var out List
	for _, a := range src {
		kv, err := lookupFor(m, a.Keyval, owner)
		if err != nil {
			abandon(m, newOwner, out)
			return nil, err
		}

		val, keep, err := kv.Copy.InvokeCopy(owner, kv, a.Value)
		if err != nil {
			abandon(m, newOwner, out)
			return nil, errors.Callback(errors.PhaseAttr, a.Keyval, err)
		}
		if !keep {
			continue
		}

		kv.refcount++
		out = append(out, Attribute{Keyval: a.Keyval, Value: val})
	}
	return out, nil
}

// Set attaches value to the object owner under keyval and returns the updated
// list. A new attribute retains the keyval. If the key is already present its
// delete callback runs on the old value first; on failure the list is
// returned unchanged.
func (m *Manager) Set(owner handle.Handle, list List, keyval handle.Handle, value any) (List, error) {
	kv, err := lookupFor(m, keyval, owner)
	if err != nil {
		return list, err
	}
	if kv.wasFreed {
		return list, errors.New(errors.PhaseAttr, errors.KindInvalidHandle).
			Handle(keyval).
			Detail("keyval already freed").
			Build()
	}

	for i := range list {
		if list[i].Keyval != keyval {
			continue
		}
		if err := kv.Delete.InvokeDelete(owner, kv, list[i].Value); err != nil {
			return list, errors.Callback(errors.PhaseAttr, keyval, err)
		}
		list[i].Value = value
		return list, nil
	}

	kv.refcount++
	return append(list, Attribute{Keyval: keyval, Value: value}), nil
}

// DeleteList runs each key's delete callback and releases the reference the
// attribute holds on its keyval.
// The walk stops at the first failing callback; that attribute and the ones
// after it are left untouched.
func DeleteList(m *Manager, owner handle.Handle, list List) error {
	for _, a := range list {
		kv, err := lookupFor(m, a.Keyval, owner)
		if err != nil {
			return err
		}
		if err := checkRelease(kv); err != nil {
			return err
		}
		if err := kv.Delete.InvokeDelete(owner, kv, a.Value); err != nil {
			return errors.Callback(errors.PhaseAttr, a.Keyval, err)
		}
		m.release(kv)
	}
	return nil
}

func abandon(m *Manager, owner handle.Handle, list List) {
	if err := DeleteList(m, owner, list); err != nil {
		Logger().Sugar().Warnf("cleanup of partially duplicated attributes failed: %v", err)
	}
}

// lookupFor resolves a keyval and checks it attaches to owner's class.
func lookupFor(m *Manager, h, owner handle.Handle) (*Keyval, error) {
	kv, err := m.Get(h)
	if err != nil {
		return nil, errors.InvalidHandle(errors.PhaseAttr, h, "keyval")
	}
	if owner.Valid() && kv.Owner() != owner.Object() {
		return nil, errors.InvalidHandle(errors.PhaseAttr, h, handle.KeyvalKind(owner.Object()).String())
	}
	return kv, nil
}
