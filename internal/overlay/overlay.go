// Package overlay holds the JavaScript injected into job pages: the floating
// trigger button, the status/action panel, per-field quick-fill buttons, and
// the transient confirmation notification. Injection is idempotent — every
// snippet checks for its own marker element before creating anything, since
// mutation-driven re-detection can run it repeatedly.
package overlay

import (
	"encoding/json"
	"fmt"
)

// Binding is the name of the CDP binding the page calls to reach the
// session's message bridge. The session registers it via Runtime.addBinding.
const Binding = "__autoapplyBridge"

// DeliverFn is the page-side function the session evaluates to complete a
// pending bridge request.
const DeliverFn = "__autoapplyDeliver"

// NotifyDismissMs is how long the confirmation notification stays up.
const NotifyDismissMs = 5000

// BridgeScript wires the request/response plumbing on the page: requests go
// out through the binding with a correlation id, responses come back through
// the deliver function. Installed once per document via
// Page.addScriptToEvaluateOnNewDocument so it survives client-side routing.
const BridgeScript = `(() => {
	if (window.` + DeliverFn + `) return;
	const pending = new Map();
	let seq = 0;
	window.__autoapplySend = (kind, payload) => new Promise((resolve) => {
		const id = 'req-' + (++seq);
		pending.set(id, resolve);
		window.` + Binding + `(JSON.stringify({ id, kind, payload }));
	});
	window.` + DeliverFn + ` = (id, response) => {
		const resolve = pending.get(id);
		if (!resolve) return;
		pending.delete(id);
		resolve(response);
	};
})();`

// ObserverScript returns the mutation-observer installer. The observer
// debounces client-side: the binding fires once per quiet window after the
// last DOM mutation, so rapid successive changes produce one re-detection.
func ObserverScript(debounceMs int) string {
	return fmt.Sprintf(`(() => {
	if (window.__autoapplyObserver) return;
	let timer = null;
	const observer = new MutationObserver((mutations) => {
		if (!mutations.some(m => m.type === 'childList' && m.addedNodes.length > 0)) return;
		if (timer) clearTimeout(timer);
		timer = setTimeout(() => {
			window.%s(JSON.stringify({ id: 'mutation', kind: 'mutation' }));
		}, %d);
	});
	observer.observe(document.body || document.documentElement, { childList: true, subtree: true });
	window.__autoapplyObserver = observer;
})();`, Binding, debounceMs)
}

// PanelStatus is the live data the status panel renders.
type PanelStatus struct {
	ApplicationsToday int  `json:"applicationsToday"`
	DailyLimit        int  `json:"dailyLimit"`
	ProfileLoaded     bool `json:"profileLoaded"`
	PageDetected      bool `json:"pageDetected"`
}

// FloatingButtonScript injects the floating trigger and the panel it opens.
// The panel's fill-all and save-job buttons round-trip through the bridge.
func FloatingButtonScript(status PanelStatus) string {
	st, _ := json.Marshal(status)
	return fmt.Sprintf(`(() => {
	if (document.getElementById('autoapply-fab')) return;
	const status = %s;
	const fab = document.createElement('div');
	fab.id = 'autoapply-fab';
	fab.textContent = '⚡ AutoApply';
	fab.style.cssText = 'position:fixed;bottom:20px;right:20px;z-index:2147483000;' +
		'background:linear-gradient(135deg,#667eea 0%%,#764ba2 100%%);color:#fff;' +
		'padding:12px 18px;border-radius:50px;cursor:pointer;font:600 14px/1 sans-serif;' +
		'box-shadow:0 4px 20px rgba(0,0,0,.3);user-select:none;';
	fab.addEventListener('click', () => {
		const existing = document.getElementById('autoapply-panel');
		if (existing) { existing.remove(); return; }
		const panel = document.createElement('div');
		panel.id = 'autoapply-panel';
		panel.style.cssText = 'position:fixed;bottom:80px;right:20px;z-index:2147483001;' +
			'background:#fff;border-radius:12px;box-shadow:0 20px 60px rgba(0,0,0,.3);' +
			'width:280px;padding:16px;font:14px/1.4 sans-serif;color:#111;';
		panel.innerHTML =
			'<div style="font-weight:600;margin-bottom:12px;">AutoApply Assistant</div>' +
			'<button id="autoapply-fill-all" style="width:100%%;margin-bottom:8px;padding:10px;' +
				'border:0;border-radius:8px;background:#667eea;color:#fff;cursor:pointer;font-weight:600;">' +
				'Fill All Fields</button>' +
			'<button id="autoapply-save-job" style="width:100%%;margin-bottom:12px;padding:10px;' +
				'border:0;border-radius:8px;background:#10b981;color:#fff;cursor:pointer;font-weight:600;">' +
				'Save Job to Tracker</button>' +
			'<div style="color:#6b7280;font-size:13px;">' +
				'Applications today: <strong>' + status.applicationsToday + '/' + status.dailyLimit + '</strong><br>' +
				(status.profileLoaded ? '✅ Profile loaded' : '❌ Profile not found') + '<br>' +
				(status.pageDetected ? '✅ Application page detected' : '❌ No application form found') +
			'</div>';
		document.body.appendChild(panel);
		panel.querySelector('#autoapply-fill-all').addEventListener('click', () => {
			window.__autoapplySend('fill-form', {});
		});
		panel.querySelector('#autoapply-save-job').addEventListener('click', () => {
			window.__autoapplySend('save-application', {});
		});
	});
	document.body.appendChild(fab);
})();`, st)
}

// QuickFillScript attaches a ⚡ button beside each recognized input. fields
// maps logical field names to their selector lists; each button requests a
// single-field fill through the bridge.
func QuickFillScript(fields map[string][]string) string {
	fj, _ := json.Marshal(fields)
	return fmt.Sprintf(`(() => {
	const fields = %s;
	for (const [field, selectors] of Object.entries(fields)) {
		for (const selector of selectors) {
			let els;
			try { els = document.querySelectorAll(selector); } catch (e) { continue; }
			for (const el of els) {
				if (el.dataset.autoapplyEnhanced) continue;
				el.dataset.autoapplyEnhanced = 'true';
				const btn = document.createElement('button');
				btn.textContent = '⚡';
				btn.type = 'button';
				btn.style.cssText = 'position:absolute;right:5px;top:50%%;transform:translateY(-50%%);' +
					'background:#667eea;color:#fff;border:0;border-radius:4px;width:24px;height:24px;' +
					'cursor:pointer;font-size:12px;z-index:2147483000;';
				btn.addEventListener('click', (e) => {
					e.preventDefault();
					e.stopPropagation();
					window.__autoapplySend('fill-form', { field });
				});
				if (el.parentElement) {
					el.parentElement.style.position = 'relative';
					el.parentElement.appendChild(btn);
				}
			}
		}
	}
})();`, fj)
}

// NotificationScript shows a transient toast that self-dismisses after
// NotifyDismissMs or on click.
func NotificationScript(message string, success bool) string {
	msg, _ := json.Marshal(message)
	color := "#10b981"
	if !success {
		color = "#ef4444"
	}
	return fmt.Sprintf(`(() => {
	const old = document.getElementById('autoapply-toast');
	if (old) old.remove();
	const toast = document.createElement('div');
	toast.id = 'autoapply-toast';
	toast.textContent = %s;
	toast.style.cssText = 'position:fixed;top:20px;right:20px;z-index:2147483002;' +
		'background:%s;color:#fff;padding:14px 18px;border-radius:8px;' +
		'font:500 14px/1 sans-serif;box-shadow:0 10px 25px rgba(0,0,0,.2);cursor:pointer;';
	toast.addEventListener('click', () => toast.remove());
	document.body.appendChild(toast);
	setTimeout(() => { if (toast.parentElement) toast.remove(); }, %d);
})();`, msg, color, NotifyDismissMs)
}

// RemoveScript tears the overlay down, used when re-detection decides the
// page no longer shows an application form.
const RemoveScript = `(() => {
	for (const id of ['autoapply-fab', 'autoapply-panel', 'autoapply-toast']) {
		const el = document.getElementById(id);
		if (el) el.remove();
	}
})();`
